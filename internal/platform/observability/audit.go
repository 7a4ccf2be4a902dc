// Package observability provides audit logging for operations that change
// another user's data, which today means the admin console.
package observability

import (
	"context"
	"log/slog"

	"pulseboard/pkg/platform/attrs"
	"pulseboard/pkg/requestcontext"
)

// LogAudit writes a structured audit line for event. The entry is enriched
// with the request ID and a subject extracted from attrList, so audit queries
// can filter on log_type=audit and group by subject.
func LogAudit(ctx context.Context, logger *slog.Logger, event string, attrList ...any) {
	if logger == nil {
		return
	}

	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrList = append(attrList, "request_id", requestID)
	}
	if subject := extractSubject(attrList); subject != "" {
		attrList = append(attrList, "subject", subject)
	}

	args := append(attrList, "event", event, "log_type", "audit")
	logger.InfoContext(ctx, event, args...)
}

func extractSubject(attrList []any) string {
	for _, key := range []string{"user_id", "notification_id"} {
		if val := attrs.ExtractString(attrList, key); val != "" {
			return val
		}
	}
	return ""
}
