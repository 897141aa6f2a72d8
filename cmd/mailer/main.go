package main

import (
	"log"

	"github.com/workzen/hr-service/config"
	"github.com/workzen/hr-service/infra/queue"
	"github.com/workzen/hr-service/internal/mailer"
)

func main() {
	cfg := config.LoadConfig()

	log.Println("mailer starting...")
	log.Printf("KafkaBroker=%s Topic=%s GroupID=%s",
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
	)

	svc := mailer.NewService(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.MailFrom,
		cfg.MailFromName,
	)

	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		mailer.NewHandler(svc),
	)

	log.Println("mailer listening for events...")
	consumer.Listen()
}
