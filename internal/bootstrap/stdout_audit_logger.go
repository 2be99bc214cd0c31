package bootstrap

import (
	"context"

	"go.uber.org/zap"
)

// StdoutAuditLogger writes operational audit events through the global zap
// logger. Kept separate from the leave audit trail, which lives in the
// database.
type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	zap.L().Named("ops.audit").Info("operational event",
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
