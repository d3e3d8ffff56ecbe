// Package logging builds the service logger. Records go to stderr and to a
// daily-rotated file whose most recent lines can be read back with Tail.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
)

const fileTimeLayout = "2006-01-02 15:04:05"

// Options configures the logger
type Options struct {
	// Path is the current log file. Rotated files are written next to it
	// with a date suffix and Path is kept as a link to the active one.
	Path          string
	RetentionDays int
	Level         string
	// Console enables the human-readable stderr writer
	Console bool
	NoColor bool
}

// Logger is the process logger. It embeds zerolog.Logger so callers use the
// usual Info()/Error() chains, and owns the rotating file it writes to.
type Logger struct {
	zerolog.Logger
	path   string
	closer io.Closer
}

// New creates a logger writing to a rotating file and optionally stderr
func New(opts Options) (*Logger, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	retention := opts.RetentionDays
	if retention < 1 {
		retention = 7
	}

	rotator, err := rotatelogs.New(
		opts.Path+".%Y-%m-%d",
		rotatelogs.WithLinkName(opts.Path),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(time.Duration(retention)*24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", opts.Path, err)
	}

	writers := []io.Writer{fileWriter(rotator)}
	if opts.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    opts.NoColor,
		})
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: zl, path: opts.Path, closer: rotator}, nil
}

// Nop returns a logger that discards everything and has no log source
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Path returns the current log file path
func (l *Logger) Path() string {
	return l.path
}

// Tail returns the last n lines of the current log file, most recent first
func (l *Logger) Tail(n int) ([]string, error) {
	return TailFile(l.path, n)
}

// Close releases the underlying file
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// fileWriter renders records as "[2006-01-02 15:04:05] [INFO] - message key=value"
func fileWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:     out,
		NoColor: true,
		FormatTimestamp: func(i interface{}) string {
			s, _ := i.(string)
			if t, err := time.Parse(zerolog.TimeFieldFormat, s); err == nil {
				s = t.Local().Format(fileTimeLayout)
			}
			return "[" + s + "]"
		},
		FormatLevel: func(i interface{}) string {
			lvl, _ := i.(string)
			if lvl == "" {
				lvl = "info"
			}
			return "[" + strings.ToUpper(lvl) + "]"
		},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("- %v", i)
		},
	}
}
