// Package config содержит логику чтения конфигурации сервиса заказа СИЗ.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса заказа СИЗ.
// Токен бота передаётся только через конфигурацию и никогда
// не попадает в исходный код или логи.
type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseURI   string `env:"DATABASE_URI"`
	SQLitePath    string `env:"SQLITE_PATH"`
	TelegramToken string `env:"TELEGRAM_TOKEN"`
	DocumentsDir  string `env:"DOCUMENTS_DIR"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envSQLitePath := cfg.SQLitePath
	envTelegramToken := cfg.TelegramToken
	envDocumentsDir := cfg.DocumentsDir
	envWebhookSecret := cfg.WebhookSecret

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "PostgreSQL database URI (empty means SQLite)")
	flag.StringVar(&cfg.SQLitePath, "s", "sizbot.db", "SQLite database file path")
	flag.StringVar(&cfg.TelegramToken, "t", "", "telegram bot token (empty disables the poller)")
	flag.StringVar(&cfg.DocumentsDir, "docs", "documents", "directory with normative documents by role")
	flag.StringVar(&cfg.WebhookSecret, "secret", "", "shared secret for the event webhook")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envSQLitePath != "" {
		cfg.SQLitePath = envSQLitePath
	}
	if envTelegramToken != "" {
		cfg.TelegramToken = envTelegramToken
	}
	if envDocumentsDir != "" {
		cfg.DocumentsDir = envDocumentsDir
	}
	if envWebhookSecret != "" {
		cfg.WebhookSecret = envWebhookSecret
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "sizbot.db"
	}
	if cfg.DocumentsDir == "" {
		cfg.DocumentsDir = "documents"
	}

	return cfg, nil
}
