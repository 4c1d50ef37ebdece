package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/julianstephens/habitual/internal/logger"
)

// SMTP holds the outgoing mail settings for the email reminder channel.
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Insecure bool
}

// Enabled reports whether enough is configured to attempt delivery.
func (s SMTP) Enabled() bool {
	return s.Host != "" && s.From != ""
}

type Config struct {
	DBConnection string
	TrayDir      string
	SMTP         SMTP
}

var AppConfig *Config

// Load reads .env files (working directory first, then the user config
// directory) into the environment and builds AppConfig from HABITUAL_*
// variables. Variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()
	if dir, err := os.UserConfigDir(); err == nil {
		envFile := filepath.Join(dir, "habitual", ".env")
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				logger.Warn("Failed to read env file", "path", envFile, "error", err)
			}
		}
	}

	AppConfig = &Config{
		DBConnection: GetEnv("HABITUAL_DB_CONNECTION", ""),
		TrayDir:      GetEnv("HABITUAL_TRAY_DIR", ""),
		SMTP: SMTP{
			Host:     GetEnv("HABITUAL_SMTP_HOST", ""),
			Port:     GetEnvInt("HABITUAL_SMTP_PORT", 587),
			Username: GetEnv("HABITUAL_SMTP_USERNAME", ""),
			Password: GetEnv("HABITUAL_SMTP_PASSWORD", ""),
			From:     GetEnv("HABITUAL_SMTP_FROM", ""),
			Insecure: GetEnv("HABITUAL_SMTP_INSECURE", "false") == "true",
		},
	}
	return AppConfig
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt is GetEnv for integers; unparsable values fall back to the default.
func GetEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn("Ignoring non-numeric environment value", "key", key, "value", value)
		return defaultValue
	}
	return n
}
