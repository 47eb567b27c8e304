package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level  string
		format string
		debug  bool
		warn   bool
	}{
		{"debug", "text", true, true},
		{"info", "json", false, true},
		{"error", "text", false, false},
		{"bogus", "json", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.debug, logger.Core().Enabled(zap.DebugLevel))
			assert.Equal(t, tt.warn, logger.Core().Enabled(zap.WarnLevel))
		})
	}
}

func TestNamedNil(t *testing.T) {
	logger := Named(nil, "reader")
	require.NotNil(t, logger)
	logger.Info("discarded")
}
