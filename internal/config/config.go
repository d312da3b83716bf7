package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port           int
	DatabaseDriver string
	DatabaseURL    string
	MongoURI       string
	MongoDB        string
	PublicBaseURL  string
	LogLevel       string
	GinMode        string
}

// Load reads the service configuration from the environment. Call
// godotenv.Load first to pick up a .env file.
func Load() Config {
	port := 8083
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", port)
	}

	return Config{
		Port:           port,
		DatabaseDriver: getenvDefault("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDB:        getenvDefault("MONGO_DB", "marketplace"),
		PublicBaseURL:  baseURL,
		LogLevel:       getenvDefault("LOG_LEVEL", "info"),
		GinMode:        os.Getenv("GIN_MODE"),
	}
}

// Validate reports the settings the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	return errors.Join(errs...)
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
