package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   LogLevel
		wantOK bool
	}{
		{"ERROR", LogLevelError, true},
		{"warn", LogLevelWarn, true},
		{" Debug ", LogLevelDebug, true},
		{"TRACE", LogLevelTrace, true},
		{"", LogLevelInfo, false},
		{"verbose", LogLevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLogLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LogLevelWarn).WithPrefix("catalog")

	logger.Info("hidden")
	logger.Warn("loaded %d records", 3)

	assert.Equal(t, "[WARN] [catalog] loaded 3 records\n", buf.String())
	assert.True(t, logger.Enabled(LogLevelError))
	assert.False(t, logger.Enabled(LogLevelDebug))
}

func TestNilLoggerUsesDefault(t *testing.T) {
	var logger *Logger
	assert.Equal(t, DefaultLogger.GetLevel(), logger.GetLevel())
	assert.NotPanics(t, func() { logger.Trace("nothing to see") })
}
