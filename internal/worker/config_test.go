package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 15*time.Minute, cfg.ScanInterval)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid",
			config: Config{ScanInterval: time.Minute, ShutdownTimeout: 5 * time.Second},
		},
		{
			name:   "minimum values",
			config: Config{ScanInterval: time.Second, ShutdownTimeout: time.Second},
		},
		{
			name:    "zero interval",
			config:  Config{ShutdownTimeout: 5 * time.Second},
			wantErr: true,
		},
		{
			name:    "sub-second interval",
			config:  Config{ScanInterval: 500 * time.Millisecond, ShutdownTimeout: 5 * time.Second},
			wantErr: true,
		},
		{
			name:    "zero shutdown timeout",
			config:  Config{ScanInterval: time.Minute},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(nil, nil, Config{}, nil)
	require.Error(t, err)
}
