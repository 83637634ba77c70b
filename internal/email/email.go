package email

import (
	"context"

	"github.com/avilov/skybooker/internal/kafka"
	"github.com/rs/zerolog"
)

// Sender is the notification endpoint for booking events. SMTP delivery is
// not wired up; the worker logs what would be sent.
type Sender struct {
	log zerolog.Logger
}

func NewSender(log zerolog.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.Info().
		Str("to", event.Email).
		Str("type", event.Type).
		Str("reference", event.Reference).
		Str("flightId", event.FlightID).
		Msg("send booking notification")
	return nil
}
