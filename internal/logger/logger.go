package logger

import (
	"go.uber.org/zap"

	"github.com/myfrench/myfrench-bot/internal/config"
)

// New builds a production logger for the production environment and a development logger otherwise.
// telegram.debug lowers the level to debug, so rejected updates and callbacks are logged too.
func New(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zcfg = zap.NewProductionConfig()
	}
	if cfg.Telegram.Debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	lg, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return lg.With(zap.String("env", cfg.Env)), nil
}
