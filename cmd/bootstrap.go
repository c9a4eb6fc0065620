package cmd

import (
	"fmt"

	"condi-loader/core/config"
	"condi-loader/core/database"
	"condi-loader/core/logger"
	"condi-loader/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env is what every command needs before doing its work.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadEnv(console bool) (*env, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := cfg.Log
	if console {
		logCfg.Format = "console"
	}
	logg, err := logger.New(&logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &env{cfg: cfg, logger: logg}, nil
}

func (e *env) storage() (storage.Client, error) {
	client, err := storage.NewClient(e.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

// history connects the optional history database. Failures are logged and
// yield nil.
func (e *env) history() *gorm.DB {
	if !e.cfg.Database.Enabled {
		return nil
	}
	db, err := database.Connect(e.cfg.Database)
	if err != nil {
		e.logger.Warn("Optional database connection failed", zap.Error(err))
		return nil
	}
	e.logger.Info("Connected to history database", zap.String("driver", e.cfg.Database.Driver))
	return db
}
