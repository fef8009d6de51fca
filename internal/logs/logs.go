package logs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process-wide logger.
type Options struct {
	Level      string
	Format     string // "text" or "json"
	Output     string // "stderr", "file" or "both"
	File       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// Fields is an alias so callers don't need to import logrus.
type Fields = logrus.Fields

var logger = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Init replaces the process-wide logger according to opts.
// Note that this method is not concurrent-safe.
func Init(opts Options) error {
	output := strings.ToLower(strings.TrimSpace(opts.Output))
	if output == "" {
		output = "stderr"
	}
	w, err := buildWriter(opts, output)
	if err != nil {
		return err
	}

	l := logrus.New()
	l.SetOutput(w)
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: output == "stderr"})
	}
	l.SetLevel(ParseLevel(opts.Level))
	logger = l
	return nil
}

// SetLevel changes the minimum level of the current logger.
func SetLevel(level string) {
	logger.SetLevel(ParseLevel(level))
}

// SetOutput redirects the current logger, mostly useful in tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// ParseLevel maps a level name to a logrus level. Unknown names fall back to warn.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}

func Debug(format string, v ...interface{}) { logger.Debugf(format, v...) }
func Info(format string, v ...interface{})  { logger.Infof(format, v...) }
func Warn(format string, v ...interface{})  { logger.Warnf(format, v...) }
func Error(format string, v ...interface{}) { logger.Errorf(format, v...) }

// With returns an entry carrying structured fields.
func With(fields Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

func buildWriter(opts Options, output string) (io.Writer, error) {
	switch output {
	case "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	case "file":
		return newRotateWriter(opts)
	case "both":
		w, err := newRotateWriter(opts)
		if err != nil {
			return nil, err
		}
		return io.MultiWriter(os.Stderr, w), nil
	default:
		return nil, fmt.Errorf("unsupported log output: %s", output)
	}
}

func newRotateWriter(opts Options) (io.Writer, error) {
	if strings.TrimSpace(opts.File) == "" {
		return nil, fmt.Errorf("log file is required when output includes file")
	}
	if dir := filepath.Dir(opts.File); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log dir: %w", err)
		}
	}

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = 10
	}
	return &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize,
		MaxBackups: max(opts.MaxBackups, 0),
		MaxAge:     max(opts.MaxAge, 0),
		Compress:   opts.Compress,
	}, nil
}
