package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration. Everything has a default so the
// service starts with no environment at all.
type Config struct {
	Port        int    // HTTP listen port
	BaseURL     string // public base for short links, no trailing slash
	DatabaseURL string // postgres DSN or sqlite file path
	LogBaseURL  string // external evaluation sink, "" disables forwarding
	LogToken    string // bearer token for the sink
	LogStdout   bool   // echo log records to stdout
}

const (
	defaultPort       = 8000
	defaultDBPath     = "./db.sqlite"
	defaultLogBaseURL = "http://20.244.56.144/evaluation-service"
)

// Load reads configuration from the environment, consulting a local .env
// file first if one exists.
func Load() Config {
	_ = godotenv.Load()

	port := getEnvInt("PORT", defaultPort)
	return Config{
		Port:        port,
		BaseURL:     strings.TrimRight(getEnv("BASE_URL", fmt.Sprintf("http://localhost:%d", port)), "/"),
		DatabaseURL: getEnv("DATABASE_URL", defaultDBPath),
		LogBaseURL:  getEnv("LOG_BASE_URL", defaultLogBaseURL),
		LogToken:    getEnv("LOG_TOKEN", ""),
		LogStdout:   getEnvBool("LOG_STDOUT", true),
	}
}

// Addr returns the listen address, e.g. ":8000".
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
