package email

import (
	"context"
	"fmt"
	"log"

	"github.com/anisurarzu/hotelseashore/internal/kafka"
)

// Sender notifies guests about their reservations. Delivery is a log line
// until an SMTP relay is configured for the deployment.
type Sender struct {
	logf func(format string, args ...any)
}

func NewSender() *Sender {
	return &Sender{logf: log.Printf}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	if event.GuestEmail == "" {
		return nil
	}
	s.logf("send email to=%s subject=%q", event.GuestEmail, Subject(event))
	return nil
}

func Subject(event kafka.ReservationEvent) string {
	switch event.Type {
	case kafka.EventReservationCreated:
		return fmt.Sprintf("Reservation %s confirmed: room %s, %s to %s", event.ReservationID, event.RoomID, event.CheckIn, event.CheckOut)
	case kafka.EventReservationEdited:
		return fmt.Sprintf("Reservation %s changed: room %s, %s to %s", event.ReservationID, event.RoomID, event.CheckIn, event.CheckOut)
	case kafka.EventReservationCancelled:
		return fmt.Sprintf("Reservation %s cancelled", event.ReservationID)
	}
	return fmt.Sprintf("Reservation %s update", event.ReservationID)
}
