package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
)

// AIFields returns the provider and model fields every scoring log entry
// carries. Blank values are dropped so entries stay compact while parts of
// the provider setup are still unresolved.
func AIFields(provider, model string) []zap.Field {
	fields := make([]zap.Field, 0, 2)

	if v := strings.TrimSpace(provider); v != "" {
		fields = append(fields, zap.String(FieldProvider, v))
	}

	if v := strings.TrimSpace(model); v != "" {
		fields = append(fields, zap.String(FieldModel, v))
	}

	return fields
}

// WithAIFields attaches the provider and model fields to the logger. A nil
// logger degrades to a no-op one so collaborators can log unconditionally.
func WithAIFields(logger *zap.Logger, provider, model string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	fields := AIFields(provider, model)
	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}
