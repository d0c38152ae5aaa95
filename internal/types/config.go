package types

// RunMode is the mode the application runs in
type RunMode string

const (
	// ModeLocal runs everything in a single process for local development
	ModeLocal RunMode = "local"
	// ModeAPI runs the HTTP API server
	ModeAPI RunMode = "api"
)

// LogLevel is the level of the log
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
