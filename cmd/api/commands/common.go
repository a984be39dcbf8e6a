package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/syl2042/contentmaestro/config"
	"github.com/syl2042/contentmaestro/internal/logging"
)

func loadConfig() (*config.Config, zerolog.Logger, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, zerolog.Nop(), fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config: %w", err)
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}

	log := logging.New(cfg.App.LogLevel, cfg.App.Environment, os.Stdout).
		With().Str("service", serviceName).Str("version", cfg.App.Version).Logger()
	return cfg, log, nil
}
