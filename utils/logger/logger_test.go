package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{name: "debug json", level: "debug", format: "json"},
		{name: "info text", level: "info", format: "text"},
		{name: "warn json", level: "warn", format: "json"},
		{name: "error text", level: "error", format: "text"},
		{name: "unknown level falls back to info", level: "bogus", format: "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewLogger(tt.level, tt.format)
			require.NotNil(t, log)

			// Must not panic on any interface method.
			log.Debug("debug message")
			log.Debugf("debug %s", "formatted")
			log.Info("info message")
			log.Infof("info %s", "formatted")
			log.Warn("warn message")
			log.Warnf("warn %s", "formatted")
			log.Error("error message")
			log.Errorf("error %s", "formatted")
		})
	}
}

func TestLoggerWithFields(t *testing.T) {
	log := NewLogger("info", "json")

	scoped := log.WithField("business_id", "b-123")
	require.NotNil(t, scoped)
	assert.NotSame(t, log, scoped)
	scoped.Info("scoped message")

	multi := log.WithFields(map[string]interface{}{
		"business_id": "b-123",
		"user_id":     "u-456",
	})
	require.NotNil(t, multi)
	multi.Info("multi field message")
}
