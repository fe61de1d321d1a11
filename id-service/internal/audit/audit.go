package audit

import (
	"context"

	"github.com/weiawesome/prefixid/pkg/log"
)

// Audit actions for id-service.
const (
	ActionIssueBatch = "ids.issue"
)

// Field constants for audit entries.
const (
	FieldAction  = "action"
	FieldBatchID = "batch_id"
)

// LogBatch emits a structured audit entry for an issued batch via the
// context logger. subject is empty when authentication is disabled.
func LogBatch(ctx context.Context, subject, batchID, prefix, source string, count int) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, ActionIssueBatch).
		Str(log.FieldSubject, subject).
		Str(FieldBatchID, batchID).
		Str(log.FieldPrefix, prefix).
		Str(log.FieldSource, source).
		Int(log.FieldCount, count).
		Msg("identifiers issued")
}
