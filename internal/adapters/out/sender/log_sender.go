// Package sender implements ports.MessageSender for the external systems
// outgoing messages are addressed to.
package sender

import (
	"context"
	"log/slog"

	"inflight/internal/core/domain/model/outbox"
)

// LogSender simulates the external systems: every send succeeds and is
// logged. It is the default when no broker is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates the simulated sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With("component", "sender.log")}
}

// Send logs msg and reports success.
func (s *LogSender) Send(ctx context.Context, msg *outbox.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "outgoing message delivered",
		"message_id", msg.ID(),
		"target", msg.Target(),
		"bytes", len(msg.Payload()),
	)
	return nil
}
