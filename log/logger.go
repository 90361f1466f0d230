package log

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatRaw  = "raw"
)

// Config selects where and how the command logs.
type Config struct {
	// Output is one of stderr, stdout, none or file=path[,level=lvl].
	Output string
	Format string

	Verbose bool
	NoColor bool
	// ForceColors is set when the output is a terminal.
	ForceColors bool
}

// RawFormatter prints the message of an entry and nothing else.
type RawFormatter struct{}

// Format renders a single log entry
func (f RawFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

// NewNullLogger returns a logger discarding everything.
func NewNullLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Setup applies cfg to logger.
//
// The returned channel is closed once the logger has flushed everything it
// buffers after ctx is done. It is already closed for the outputs that
// don't buffer.
func Setup(
	ctx context.Context, logger *logrus.Logger, fallbackLogger logrus.FieldLogger,
	fs afero.Fs, getCwd func() (string, error), cfg Config, stdout, stderr io.Writer,
) (<-chan struct{}, error) {
	ch := make(chan struct{})
	close(ch)

	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	switch cfg.Output {
	case "", "stderr":
		logger.SetOutput(stderr)
	case "stdout":
		logger.SetOutput(stdout)
	case "none":
		logger.SetOutput(io.Discard)
	default:
		if !strings.HasPrefix(cfg.Output, "file") {
			return nil, fmt.Errorf("unsupported log output '%s'", cfg.Output)
		}
		ch = make(chan struct{})
		hook, err := FileHookFromConfigLine(ctx, fs, getCwd, fallbackLogger, cfg.Output, ch)
		if err != nil {
			return nil, err
		}
		logger.AddHook(hook)
		logger.SetOutput(io.Discard) // don't output to anywhere else
		cfg.NoColor = true
		cfg.ForceColors = false
	}

	switch cfg.Format {
	case FormatRaw:
		logger.SetFormatter(&RawFormatter{})
		logger.Debug("Logger format: RAW")
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.Debug("Logger format: JSON")
	case "", FormatText:
		logger.SetFormatter(&logrus.TextFormatter{ForceColors: cfg.ForceColors, DisableColors: cfg.NoColor})
		logger.Debug("Logger format: TEXT")
	default:
		return nil, fmt.Errorf("unsupported log format '%s'", cfg.Format)
	}
	return ch, nil
}
