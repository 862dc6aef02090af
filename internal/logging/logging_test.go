package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level     string
		debugOn   bool
		warnOn    bool
		wantError bool
	}{
		{"debug", true, true, false},
		{"info", false, true, false},
		{"WARN", false, true, false},
		{"error", false, false, false},
		{"trace", false, false, true},
		{"", false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := New(tt.level)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.debugOn, log.Core().Enabled(zap.DebugLevel))
			assert.Equal(t, tt.warnOn, log.Core().Enabled(zap.WarnLevel))
		})
	}
}
