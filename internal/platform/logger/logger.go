package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	Env          string
	ConsoleLevel string // default info
	FileLevel    string // default debug
	File         string // no file output when empty
	App          string

	// Console replaces stdout, mostly for tests.
	Console io.Writer
}

// Logger is a slog.Logger together with the file it may be writing to.
type Logger struct {
	*slog.Logger
	file io.Closer
}

// New builds a logger that writes colored text to the console and, when a
// file is configured, JSON to a rotated file.
func New(o Options) *Logger {
	console := o.Console
	if console == nil {
		console = os.Stdout
	}
	timeFormat := time.RFC3339
	if o.Env == "dev" {
		timeFormat = time.Kitchen
	}

	handlers := []slog.Handler{
		tint.NewHandler(console, &tint.Options{
			Level:      ParseLevel(o.ConsoleLevel, slog.LevelInfo),
			TimeFormat: timeFormat,
			NoColor:    o.Console != nil,
		}),
	}

	l := &Logger{}
	if o.File != "" {
		w := &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		l.file = w
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: ParseLevel(o.FileLevel, slog.LevelDebug),
		}))
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = Fanout(handlers...)
	}
	l.Logger = slog.New(h).With(
		slog.String("app", o.App),
		slog.String("env", o.Env),
	)
	return l
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil
	return f.Close()
}

// ParseLevel maps debug, info, warn and error to slog levels, falling back
// to def for anything else.
func ParseLevel(s string, def slog.Level) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}
