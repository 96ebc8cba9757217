package cmd

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	config "gigflow.com/gigflow/internal/configs"
)

// bootstrap loads .env and the config, then builds the logger and the
// database handle shared by every command.
func bootstrap() (config.Config, *zap.Logger, *gorm.DB, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	log, err := config.NewLogger(cfg)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	if envErr != nil {
		log.Info(".env file not found, using environment variables")
	}

	db, err := config.NewDatabaseClient(cfg, log)
	if err != nil {
		_ = log.Sync()
		return config.Config{}, nil, nil, err
	}

	return cfg, log, db, nil
}
