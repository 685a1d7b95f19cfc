package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/atikulmunna/loglens/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		cfg     config.LoggerConfig
		enabled zapcore.Level
		wantErr bool
	}{
		{cfg: config.LoggerConfig{Level: "debug", Format: "console"}, enabled: zapcore.DebugLevel},
		{cfg: config.LoggerConfig{Level: "WARN", Format: "json"}, enabled: zapcore.WarnLevel},
		{cfg: config.LoggerConfig{Level: "loud"}, wantErr: true},
		{cfg: config.LoggerConfig{Level: "info", Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		logger, err := New(tt.cfg)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%+v: expected error", tt.cfg)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%+v: %v", tt.cfg, err)
		}
		if !logger.Core().Enabled(tt.enabled) {
			t.Errorf("%+v: expected %s enabled", tt.cfg, tt.enabled)
		}
		if tt.enabled > zapcore.DebugLevel && logger.Core().Enabled(tt.enabled-1) {
			t.Errorf("%+v: expected %s disabled", tt.cfg, tt.enabled-1)
		}
	}
}
