package logging

import (
	"fmt"

	"github.com/rs/zerolog"
)

// ConsoleLogger writes console command logs through zerolog. It satisfies
// dispatcher.Logger.
type ConsoleLogger struct {
	z zerolog.Logger
}

// NewConsoleLogger wraps z.
func NewConsoleLogger(z zerolog.Logger) *ConsoleLogger {
	return &ConsoleLogger{z: z}
}

func (l *ConsoleLogger) Debug(msg string, keysAndValues ...any) {
	emit(l.z.Debug(), msg, keysAndValues)
}

func (l *ConsoleLogger) Info(msg string, keysAndValues ...any) {
	emit(l.z.Info(), msg, keysAndValues)
}

func (l *ConsoleLogger) Error(msg string, keysAndValues ...any) {
	emit(l.z.Error(), msg, keysAndValues)
}

// emit adds alternating key/value pairs to ev. Non-string keys are
// formatted; a trailing key without value is kept under "!BADKEY" like slog.
func emit(ev *zerolog.Event, msg string, kv []any) {
	if ev == nil {
		return
	}
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			ev.Interface("!BADKEY", kv[i])
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		switch v := kv[i+1].(type) {
		case error:
			ev.AnErr(key, v)
		case string:
			ev.Str(key, v)
		case []string:
			ev.Strs(key, v)
		case int:
			ev.Int(key, v)
		default:
			ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}
