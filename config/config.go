package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	ServerPort     string
	DatabaseDSN    string
	AppSecret      string
	JWTExpiryHours int
	CompanyCode    string

	FrontendBaseURL string
	MaxUploadSizeMB int64

	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string

	CloudinaryURL string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailFromName string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: .env not loaded:", err)
		}
	}

	return Config{
		Env:            os.Getenv("ENV"),
		ServerPort:     getenv("SERVER_PORT", ":3000"),
		DatabaseDSN:    os.Getenv("DATABASE_DSN"),
		AppSecret:      os.Getenv("APP_SECRET"),
		JWTExpiryHours: getenvInt("JWT_EXPIRY_HOURS", 168),
		CompanyCode:    getenv("COMPANY_CODE", "WZ"),

		FrontendBaseURL: os.Getenv("FRONTEND_BASE_URL"),
		MaxUploadSizeMB: int64(getenvInt("MAX_UPLOAD_SIZE_MB", 12)),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
		KafkaGroupID:  os.Getenv("KAFKA_GROUP_ID"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     os.Getenv("MAIL_FROM"),
		MailFromName: getenv("MAIL_FROM_NAME", "WorkZen HR"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
