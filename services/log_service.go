package services

// LogHandler is a per-module logger. Debug messages are emitted only when
// the module was created in debug mode.
type LogHandler interface {
	Debug(message string)
	Info(message string)
	Warn(message string)
	Error(message string, err error)
}
