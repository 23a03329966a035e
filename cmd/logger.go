package cmd

import (
	"go.uber.org/zap"

	"github.com/kubev2v/datatables/internal/config"
)

func newLogger(cfg config.Log) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = level

	return zc.Build()
}
