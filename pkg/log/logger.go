// Package log provides per-learner file logging for videoml.
//
// Unlike a process-global, name-keyed logger registry, each learner owns an
// explicit FileLogger handle with a create/close lifecycle. The handle writes
// through a size-rotating file sink and formats each record as
//
//	[2006-01-02 15:04:05] LEVEL: message
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	verrors "github.com/YuminosukeSato/videoml/pkg/errors"
)

// Level represents a logging severity level.
type Level int

// Severity levels supported by FileLogger.
const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Rotation policy of the file sink.
const (
	// MaxSizeMB is the size threshold in megabytes before the log file rotates.
	MaxSizeMB = 100
	// MaxBackups is the number of rotated files kept on disk.
	MaxBackups = 200
)

// timeFormat is the timestamp layout of a log record.
const timeFormat = "2006-01-02 15:04:05"

// FileLogger is an explicit logging handle owned by a learner instance.
// It emits at info level and above to a rotating file.
type FileLogger struct {
	path string
	sink *lumberjack.Logger
	zl   zerolog.Logger
}

// New creates a FileLogger writing to path, creating the parent directory
// if it does not exist yet.
func New(path string) (*FileLogger, error) {
	if path == "" {
		return nil, verrors.NewValueError("log.New", "empty log path")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, verrors.Wrapf(err, "log.New: creating log directory %s", dir)
		}
	}

	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    MaxSizeMB,
		MaxBackups: MaxBackups,
	}

	cw := zerolog.ConsoleWriter{
		Out:        sink,
		NoColor:    true,
		TimeFormat: timeFormat,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FormatTimestamp: formatTimestamp,
		FormatLevel:     formatLevel,
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("%s", i)
		},
	}

	zl := zerolog.New(cw).Level(zerolog.InfoLevel).With().Timestamp().Logger()

	return &FileLogger{path: path, sink: sink, zl: zl}, nil
}

// Path returns the log file path this handle writes to.
func (l *FileLogger) Path() string {
	return l.path
}

// Info logs a message at info level.
func (l *FileLogger) Info(msg string) {
	l.zl.Info().Msg(msg)
}

// Warn logs a message at warning level.
func (l *FileLogger) Warn(msg string) {
	l.zl.Warn().Msg(msg)
}

// Error logs a message at error level.
func (l *FileLogger) Error(msg string) {
	l.zl.Error().Msg(msg)
}

// LogAt routes a message to the matching severity method.
func (l *FileLogger) LogAt(level Level, msg string) {
	switch level {
	case LevelWarn:
		l.Warn(msg)
	case LevelError:
		l.Error(msg)
	default:
		l.Info(msg)
	}
}

// Close releases the underlying file sink. The handle must not be used
// after Close.
func (l *FileLogger) Close() error {
	return l.sink.Close()
}

func formatTimestamp(i interface{}) string {
	ts, ok := i.(string)
	if !ok {
		return fmt.Sprintf("[%v]", i)
	}
	t, err := time.Parse(zerolog.TimeFieldFormat, ts)
	if err != nil {
		return "[" + ts + "]"
	}
	return "[" + t.Local().Format(timeFormat) + "]"
}

func formatLevel(i interface{}) string {
	lv, ok := i.(string)
	if !ok {
		return fmt.Sprintf("%v:", i)
	}
	switch strings.ToLower(lv) {
	case "warn":
		return "WARNING:"
	default:
		return strings.ToUpper(lv) + ":"
	}
}
