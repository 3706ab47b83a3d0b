package port

// Logger is the structured logging interface the services depend on.
// Arguments follow the slog key-value convention.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
