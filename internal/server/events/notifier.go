package events

import (
	"context"

	"github.com/dmitrijs2005/gophmember/internal/logging"
)

// LogNotifier stands in for the mail collaborator: it records that a
// welcome message with credentials was handed off. The secret itself is
// never written to the log.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{logger: l.With("module", "notifier")}
}

func (n *LogNotifier) NotifyNewAccount(ctx context.Context, email, displayName, oneTimeSecret string) error {
	n.logger.Info(ctx, "welcome message queued",
		"email", email, "display_name", displayName, "secret_len", len(oneTimeSecret))
	return nil
}
