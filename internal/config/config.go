package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config centralises the environment-driven settings.
type Config struct {
	Port          string
	JWTSecret     string
	DatabaseURL   string // when set, slots live in Postgres
	DataDir       string // file-backed slots otherwise
	ReminderCron  string
	CORSOrigins   []string
	AdminEmail    string
	AdminPassword string // first-run seed credentials, change in production
}

// Load reads the environment, failing fast on required values.
func Load(log *logrus.Logger) *Config {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	return &Config{
		Port:          envOr("PORT", "8080"),
		JWTSecret:     secret,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DataDir:       envOr("DATA_DIR", "data"),
		ReminderCron:  envOr("REMINDER_CRON", "0 8 * * *"),
		CORSOrigins:   strings.Split(envOr("CORS_ORIGINS", "*"), ","),
		AdminEmail:    envOr("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: envOr("ADMIN_PASSWORD", "123456"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
