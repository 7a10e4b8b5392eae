// Package observability wires OpenTelemetry tracing and structured logging
// for the upload server. When no OTLP endpoint is configured, providers are
// no-ops with zero export overhead.
package observability

import "log/slog"

// serviceName identifies this service in exported telemetry.
const serviceName = "sprintfang"

// Config controls telemetry initialization.
type Config struct {
	// OTLPEndpoint is the OTLP gRPC collector endpoint. Empty disables
	// trace export entirely.
	OTLPEndpoint string

	// OTLPInsecure disables transport security for the exporter.
	OTLPInsecure bool

	// ServiceVersion is attached to the telemetry resource.
	ServiceVersion string

	// LogLevel is the minimum level for the structured logger.
	LogLevel slog.Level

	// LogJSON switches the logger from text to JSON output.
	LogJSON bool
}

// ParseLogLevel maps a config string to an slog level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
