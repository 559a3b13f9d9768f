package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Fields flow through context enrichment, so session/orchestration context (client_id,
// batch_id, etc.) is included in every log statement without manual plumbing.
type LogFields struct {
	ClientID    *string // WebSocket client session ID
	BatchID     *int64  // Suggestion batch ID for the current orchestration cycle
	Speaker     *string // Speaker attribution of the utterance being handled
	MessageType *string // Inbound WS message type ("audio", "text", ...)
	Component   string  // Component name (e.g., "chatbuff.assistant.orchestrator")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

// mergeFields merges two LogFields, preferring non-nil/non-empty values from 'new'.
func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.ClientID != nil {
		result.ClientID = new.ClientID
	}
	if new.BatchID != nil {
		result.BatchID = new.BatchID
	}
	if new.Speaker != nil {
		result.Speaker = new.Speaker
	}
	if new.MessageType != nil {
		result.MessageType = new.MessageType
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{ClientID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen bytes, appending "..." if truncated.
// Useful for logging potentially long strings like prompts or transcripts.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
