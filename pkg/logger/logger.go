// Package logger provides the structured logging interface used across the
// JALAK-HIJAU analysis service. Implementations live in
// internal/infrastructure/monitoring; this package only defines the contract
// so domain and application code never import a concrete logging library.
package logger

import "context"

// Fields is a set of key-value pairs attached to a log entry.
type Fields map[string]interface{}

// Logger is the service-wide structured logging interface. Every method takes
// a context so implementations can attach trace and request correlation ids.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Fields)
	Info(ctx context.Context, msg string, fields ...Fields)
	Warn(ctx context.Context, msg string, fields ...Fields)
	Error(ctx context.Context, msg string, err error, fields ...Fields)
	Fatal(ctx context.Context, msg string, err error, fields ...Fields)

	// WithFields returns a derived logger that includes fields on every entry.
	WithFields(fields Fields) Logger

	// WithComponent returns a derived logger tagged with a component name.
	WithComponent(component string) Logger
}
