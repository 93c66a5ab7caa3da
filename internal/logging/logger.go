// Package logging defines the structured, context-aware logger used across
// Artefacto and its log/slog implementation.
package logging

import "context"

// Logger takes key/value pairs after the message:
//
//	log.Info(ctx, "login succeeded", "role", role)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	// With returns a child logger that adds args to every record.
	With(args ...any) Logger
}
