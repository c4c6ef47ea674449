package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

// StructuredLogger writes one JSON object per message using zerolog.
// Every record carries the invocation's run id.
type StructuredLogger struct {
	logger zerolog.Logger
}

// NewStructuredLogger creates a StructuredLogger writing to stderr.
func NewStructuredLogger(runID string, verbose bool) *StructuredLogger {
	return NewStructuredLoggerTo(os.Stderr, runID, verbose)
}

// NewStructuredLoggerTo creates a StructuredLogger writing to out.
// Verbose messages are emitted at debug level and dropped unless verbose is set.
func NewStructuredLoggerTo(out io.Writer, runID string, verbose bool) *StructuredLogger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if runID != "" {
		ctx = ctx.Str("run", runID)
	}
	return &StructuredLogger{logger: ctx.Logger()}
}

func (l *StructuredLogger) Verbose(format string, args ...interface{}) {
	l.logger.Debug().Msg(sprintf(format, args))
}

func (l *StructuredLogger) Info(format string, args ...interface{}) {
	l.logger.Info().Msg(sprintf(format, args))
}

func (l *StructuredLogger) Warn(format string, args ...interface{}) {
	l.logger.Warn().Msg(sprintf(format, args))
}

func (l *StructuredLogger) Error(format string, args ...interface{}) {
	l.logger.Error().Msg(sprintf(format, args))
}

func sprintf(format string, args []interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// New returns the logger selected by format, writing to stderr.
func New(format, runID string, verbose bool) pgfleet.Logger {
	return NewTo(os.Stderr, format, runID, verbose)
}

// NewTo returns the logger selected by format: "json" yields a
// StructuredLogger, anything else a ConsoleLogger.
func NewTo(out io.Writer, format, runID string, verbose bool) pgfleet.Logger {
	if strings.EqualFold(format, "json") {
		return NewStructuredLoggerTo(out, runID, verbose)
	}
	return NewConsoleLoggerTo(out, verbose)
}

var _ pgfleet.Logger = (*StructuredLogger)(nil)
