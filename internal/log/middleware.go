package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// StructuredLogger provides domain-level log helpers on top of Logger
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogExpenseCreated logs a committed record
func (sl *StructuredLogger) LogExpenseCreated(ctx context.Context, sessionID, id, desc, amount, category string) {
	fields := NewFields().
		WithExpense(id, desc, amount, category).
		WithSession(sessionID).
		WithOperation(OpCreate).
		WithComponent(ComponentExpense)

	FromContextOr(ctx, sl.logger).InfoContext(ctx, "Expense created", fields.ToSlice()...)
}

// LogExpenseDeleted logs a delete intent and whether a record matched
func (sl *StructuredLogger) LogExpenseDeleted(ctx context.Context, sessionID, id string, removed bool) {
	fields := NewFields().
		WithSession(sessionID).
		WithOperation(OpDelete).
		WithComponent(ComponentExpense)
	fields[FieldExpenseID] = id
	fields[FieldSuccess] = removed

	FromContextOr(ctx, sl.logger).InfoContext(ctx, "Expense delete processed", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)

	FromContextOr(ctx, sl.logger).ErrorContext(ctx, msg, allFields.ToSlice()...)
}

// FromContextOr returns the request-scoped logger if one is set, else fallback.
func FromContextOr(ctx context.Context, fallback *Logger) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return fallback
}
