package logger

import (
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Module wires slog logger for dependency injection.
var Module = fx.Provide(New)

// EventLogger reports fx container events through the service logger.
func EventLogger(l *slog.Logger) fxevent.Logger {
	ev := &fxevent.SlogLogger{Logger: l.With(slog.String("component", "fx"))}
	ev.UseLogLevel(slog.LevelDebug)
	return ev
}
