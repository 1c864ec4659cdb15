// Package alert raises emergency notifications to the on-call destination.
package alert

import (
	"context"
	"fmt"
	"log/slog"

	"neuronest-backend/internal/platform/whatsapp"
)

// Sender delivers an alert text to a phone number.
type Sender interface {
	Send(ctx context.Context, to, body string) whatsapp.Result
}

// Service sends emergency alerts to a fixed destination through the
// messaging gateway.
type Service struct {
	sender      Sender
	destination string
	logger      *slog.Logger
}

func NewService(sender Sender, destination string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{sender: sender, destination: destination, logger: logger}
}

// Raise sends an emergency alert for the given patient. Delivery failure is
// downgraded to a logged soft failure; the degraded result is returned so
// callers can inspect it.
func (s *Service) Raise(ctx context.Context, patientName, condition string) whatsapp.Result {
	body := fmt.Sprintf(
		"Emergency Alert!\nPatient: %s\nCondition: %s\nPlease respond urgently!",
		patientName, condition,
	)
	res := s.sender.Send(ctx, s.destination, body)
	if !res.OK() {
		s.logger.Error("emergency alert delivery failed", "patient", patientName, "error", res.Err)
	} else {
		s.logger.Info("emergency alert sent", "patient", patientName, "condition", condition)
	}
	return res
}
