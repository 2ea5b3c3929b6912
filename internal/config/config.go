package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath           = "./dev.db"
	defaultPort             = "8080"
	defaultEnv              = "development"
	defaultLogLevel         = "info"
	defaultMigrationsDir    = "migrations"
	defaultBatchConcurrency = 8
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env              string
	AdminEmail       string
	AdminPassword    string
	SessionSecret    string
	DBPath           string
	Port             string
	MigrationsDir    string
	LogLevel         string
	LogPretty        bool
	CORSOrigins      []string
	BatchConcurrency int

	// Warnings lists problems found while loading. They are returned rather
	// than logged so callers can report them once logging is configured.
	Warnings []string
}

// Load reads environment variables and returns a populated Config.
// A .env file in the working directory is loaded first when present; it never
// overrides variables already set in the environment.
func Load() Config {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path.
func LoadFrom(dotenvPath string) Config {
	_ = godotenv.Load(dotenvPath)

	cfg := Config{
		Env:              getEnv("APP_ENV", defaultEnv),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		DBPath:           getEnv("DB_PATH", defaultDBPath),
		Port:             getEnv("PORT", defaultPort),
		MigrationsDir:    getEnv("MIGRATIONS_DIR", defaultMigrationsDir),
		LogLevel:         getEnv("LOG_LEVEL", defaultLogLevel),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		BatchConcurrency: defaultBatchConcurrency,
	}

	cfg.LogPretty = getEnvBool("LOG_PRETTY", cfg.IsDev())

	if raw := os.Getenv("BATCH_CONCURRENCY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("BATCH_CONCURRENCY %q must be a positive integer, using default", raw))
		} else {
			cfg.BatchConcurrency = n
		}
	}

	for _, key := range []string{"ADMIN_EMAIL", "ADMIN_PASSWORD", "SESSION_SECRET"} {
		if os.Getenv(key) == "" {
			cfg.Warnings = append(cfg.Warnings, key+" is not set")
		}
	}

	return cfg
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
