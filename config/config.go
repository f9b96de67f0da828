package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds runtime settings. Flags on the command line override it.
type Config struct {
	Addr          string
	RedisAddr     string
	InvoicePolicy string
	Variant       string
	RateLimit     int
	SessionTTL    time.Duration
	LogLevel      string
	LogFormat     string
}

func Default() Config {
	return Config{
		Addr:       ":8080",
		RateLimit:  30,
		SessionTTL: 30 * time.Minute,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads the optional env files (".env" when none are given) and then
// the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := Default()
	cfg.Addr = envString("ADDR", cfg.Addr)
	cfg.RedisAddr = envString("REDIS_ADDR", cfg.RedisAddr)
	cfg.InvoicePolicy = envString("INVOICE_POLICY", cfg.InvoicePolicy)
	cfg.Variant = envString("VARIANT", cfg.Variant)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envString("LOG_FORMAT", cfg.LogFormat)

	if v := os.Getenv("RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("RATE_LIMIT must be a positive integer, got %q", v)
		}
		cfg.RateLimit = n
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL must be a positive duration, got %q", v)
		}
		cfg.SessionTTL = d
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ConfigureLogging applies the level and format to the standard logrus logger.
func (c Config) ConfigureLogging() error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(level)

	switch c.LogFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}
