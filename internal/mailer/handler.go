package mailer

import (
	"encoding/json"
	"log"

	"github.com/workzen/hr-service/internal/dto"
)

// Handler adapts the mail service to the broker consumer loop.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) HandleMessage(message string) error {
	var event dto.MailEvent
	if err := json.Unmarshal([]byte(message), &event); err != nil {
		log.Printf("invalid event payload: %s", message)
		return err
	}

	log.Printf("mail event received: event=%s to=%s", event.Event, event.To)
	return h.svc.Send(event)
}
