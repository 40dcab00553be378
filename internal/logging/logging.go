// Package logging adapts zerolog to the Logger interfaces used by dbchat
// packages.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger implements the Debug/Info/Warn/Error(msg, args...) interface on
// top of zerolog. Args are alternating key/value pairs.
type Logger struct {
	zl zerolog.Logger
}

// New creates a Logger writing to w. format is "json" or "console";
// level is a zerolog level name such as "debug" or "warn".
func New(w io.Writer, format, level string) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}

	return &Logger{zl: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}, nil
}

// Stderr creates a Logger writing to standard error.
func Stderr(format, level string) (*Logger, error) {
	return New(os.Stderr, format, level)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) { l.log(l.zl.Debug(), msg, args) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.log(l.zl.Info(), msg, args) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.log(l.zl.Warn(), msg, args) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.log(l.zl.Error(), msg, args) }

func (l *Logger) log(e *zerolog.Event, msg string, args []any) {
	if e == nil {
		return
	}
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		if i+1 >= len(args) {
			e = e.Str("!BADKEY", key)
			break
		}
		switch v := args[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(msg)
}
