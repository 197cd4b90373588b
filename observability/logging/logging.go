package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotationConfig configures on-disk log rotation via lumberjack. A zero
// value leaves Filename empty, in which case SetupRotating writes to
// os.Stdout instead of rotating a file.
type RotationConfig struct {
	// Filename is the log file path. Empty disables rotation.
	Filename string
	// MaxSizeMB is the size in megabytes a log file reaches before it is
	// rotated. Defaults to 100 when zero and Filename is set.
	MaxSizeMB int
	// MaxBackups is the number of rotated files to retain. Defaults to 5
	// when zero and Filename is set.
	MaxBackups int
	// MaxAgeDays is the number of days to retain rotated files. Defaults to
	// 28 when zero and Filename is set.
	MaxAgeDays int
	// Compress gzip-compresses rotated files.
	Compress bool
}

func (c RotationConfig) writer() io.Writer {
	if strings.TrimSpace(c.Filename) == "" {
		return os.Stdout
	}
	maxSize := c.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 100
	}
	maxBackups := c.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 5
	}
	maxAge := c.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 28
	}
	return &lumberjack.Logger{
		Filename:   c.Filename,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   c.Compress,
	}
}

// Setup configures the standard library logger to emit structured JSON and returns
// the underlying slog.Logger for richer logging within the service. All log lines
// include the service name and environment when provided.
func Setup(service, env string) *slog.Logger {
	return setup(service, env, os.Stdout)
}

// SetupRotating behaves like Setup but writes through a rotating file
// sink when rotation.Filename is set, falling back to os.Stdout otherwise.
func SetupRotating(service, env string, rotation RotationConfig) *slog.Logger {
	return setup(service, env, rotation.writer())
}

func setup(service, env string, w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: false,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				return slog.Attr{Key: "timestamp", Value: attr.Value}
			}
			if attr.Key == slog.LevelKey {
				level := strings.ToUpper(attr.Value.String())
				return slog.String("severity", level)
			}
			if attr.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	})

	attrs := []slog.Attr{
		slog.String("service", strings.TrimSpace(service)),
	}
	if env = strings.TrimSpace(env); env != "" {
		attrs = append(attrs, slog.String("env", env))
	}

	withArgs := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		withArgs = append(withArgs, attr)
	}

	base := slog.New(handler).With(withArgs...)
	slog.SetDefault(base)

	// Bridge the standard library logger so existing packages continue to work.
	stdBridge := slog.NewLogLogger(handler.WithAttrs(attrs), slog.LevelInfo)
	stdBridge.SetFlags(0)
	log.SetOutput(stdBridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return base
}
