package logger

import (
	"testing"

	"go.uber.org/zap"

	"github.com/myfrench/myfrench-bot/internal/config"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		debug     bool
		wantDebug bool
	}{
		{"production", "production", false, false},
		{"production with telegram debug", "production", true, true},
		{"local", "local", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Env: tt.env}
			cfg.Telegram.Debug = tt.debug

			lg, err := New(cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := lg.Core().Enabled(zap.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if !lg.Core().Enabled(zap.InfoLevel) {
				t.Error("info must always be enabled")
			}
		})
	}
}
