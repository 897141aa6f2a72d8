package services

import (
	"encoding/json"
	"log"

	"github.com/workzen/hr-service/internal/dto"
	"github.com/workzen/hr-service/internal/interfaces"
)

// publishMail hands a mail event to the broker. Delivery problems are
// logged and swallowed; outbound mail never fails the primary
// operation.
func publishMail(p interfaces.ProducerHandler, event dto.MailEvent) bool {
	if p == nil {
		return false
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return false
	}
	if err := p.PublishMessage([]byte(event.Event), payload); err != nil {
		log.Printf("publish %s error: %v", event.Event, err)
		return false
	}
	return true
}
