package log

import (
	"github.com/sirupsen/logrus"
)

// LeveledLogger adapts a logrus logger to the key/value logger interface
// used by go-retryablehttp.
type LeveledLogger struct {
	logger logrus.FieldLogger
}

// NewLeveledLogger wraps logger.
func NewLeveledLogger(logger logrus.FieldLogger) *LeveledLogger {
	return &LeveledLogger{logger: logger}
}

func (l *LeveledLogger) Error(msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Error(msg)
}

func (l *LeveledLogger) Info(msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Info(msg)
}

// Debug logs the per-request lines of the retrying client.
func (l *LeveledLogger) Debug(msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Debug(msg)
}

func (l *LeveledLogger) Warn(msg string, keysAndValues ...any) {
	l.entry(keysAndValues).Warn(msg)
}

func (l *LeveledLogger) entry(keysAndValues []any) logrus.FieldLogger {
	if len(keysAndValues) == 0 {
		return l.logger
	}

	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}

	return l.logger.WithFields(fields)
}
