package notify

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

// logNotifier writes account notices to the log instead of sending mail.
// It stands in for an email provider in development and tests.
type logNotifier struct {
	log zerolog.Logger
}

var _ ports.Notifier = (*logNotifier)(nil)

func NewLogNotifier(baseLogger *zerolog.Logger) ports.Notifier {
	return &logNotifier{
		log: baseLogger.With().Str("component", "notifier").Logger(),
	}
}

func (n *logNotifier) Notify(ctx context.Context, user *domain.User, subject, body string) error {
	n.log.Info().
		Str("user_id", user.ID.String()).
		Str("email", user.Email).
		Str("subject", subject).
		Str("body", body).
		Msg("Notification sent")
	return nil
}
