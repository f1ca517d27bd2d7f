package log

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewLogger creates a logrus logger writing to out with the given level and format.
func NewLogger(out io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)

	switch format {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	case FormatText, "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return logger, nil
}

// WithSpinner executes the given function while showing a spinner with the specified message.
func WithSpinner(message string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	err := s.Color("green")
	if err != nil {
		return fmt.Errorf("coloring green: %w", err)
	}

	s.Start()
	s.FinalMSG = message + " \033[32m[done]\033[0m\n"
	defer s.Stop()

	return fn()
}
