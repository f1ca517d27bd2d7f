package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectError bool
		contains    string
	}{
		{name: "text", level: "info", format: FormatText, contains: "msg=hello"},
		{name: "default format", level: "debug", format: "", contains: "msg=hello"},
		{name: "json", level: "info", format: FormatJSON, contains: `"msg":"hello"`},
		{name: "bad level", level: "loud", format: FormatText, expectError: true},
		{name: "bad format", level: "info", format: "xml", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger, err := NewLogger(&buf, tt.level, tt.format)
			if tt.expectError {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			logger.Info("hello")
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}

func TestLeveledLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	leveled := NewLeveledLogger(logger)

	leveled.Debug("performing request", "method", "GET", "url", "http://example.com/users")
	leveled.Warn("retrying", "attempt", 2, "dangling")
	leveled.Error("request failed", "error", errors.New("boom"))
	leveled.Info("plain")

	entries := hook.AllEntries()
	require.Len(t, entries, 4)

	assert.Equal(t, logrus.DebugLevel, entries[0].Level)
	assert.Equal(t, "GET", entries[0].Data["method"])
	assert.Equal(t, "http://example.com/users", entries[0].Data["url"])

	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
	assert.Equal(t, 2, entries[1].Data["attempt"])
	assert.Len(t, entries[1].Data, 1)

	assert.Equal(t, logrus.ErrorLevel, entries[2].Level)
	assert.Equal(t, "plain", entries[3].Message)
}
