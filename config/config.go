package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"mod-helper/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load loads the configuration from environment variables and the guard
// config file.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		return nil, fmt.Errorf("APP_ID environment variable not set")
	}

	webhookURL := os.Getenv("LOG_WEBHOOK_URL")
	if webhookURL == "" {
		log.Println("Warning: LOG_WEBHOOK_URL not set, webhook logging will be disabled")
	}

	dbPath := os.Getenv("SANCTION_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/sanctions.db"
	}

	interval := 60
	if v := os.Getenv("RECONCILE_INTERVAL"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			log.Printf("Warning: invalid RECONCILE_INTERVAL %q, using default of 60s", v)
		} else {
			interval = parsed
		}
	}

	cfg := &model.Config{
		BotToken:          token,
		AppID:             appID,
		LogWebhookURL:     webhookURL,
		SanctionDBPath:    dbPath,
		ReconcileInterval: interval,
	}

	guard, err := loadGuardConfig("data/guard_config.yaml")
	if err != nil {
		return nil, err
	}
	cfg.Guard = guard

	return cfg, nil
}

// loadGuardConfig reads the Patreon guard settings. A missing file disables
// the guard rather than failing startup.
func loadGuardConfig(path string) (model.GuardConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("fix_delay_seconds", 10)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			log.Println("Info: guard config not found, Patreon role guard disabled")
			return model.GuardConfig{}, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Info: guard config not found, Patreon role guard disabled")
			return model.GuardConfig{}, nil
		}
		return model.GuardConfig{}, fmt.Errorf("failed to read guard config: %w", err)
	}

	var guard model.GuardConfig
	if err := v.Unmarshal(&guard); err != nil {
		return model.GuardConfig{}, fmt.Errorf("failed to parse guard config: %w", err)
	}

	if guard.Mode != "" && guard.Mode != model.GuardModeFixer && guard.Mode != model.GuardModeMirror {
		return model.GuardConfig{}, fmt.Errorf("unknown guard mode: %s", guard.Mode)
	}

	return guard, nil
}
