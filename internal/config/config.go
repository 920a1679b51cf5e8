package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the dashboard and the development API.
type Config struct {
	AppEnv                string `yaml:"app_env"`
	HTTPPort              int    `yaml:"http_port"`
	GRPCPort              int    `yaml:"grpc_port"`
	GRPCReflectionEnabled bool   `yaml:"grpc_reflection_enabled"`

	API struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`

	Search struct {
		Debounce   time.Duration `yaml:"debounce"`
		MinLength  int           `yaml:"min_length"`
		SessionTTL time.Duration `yaml:"session_ttl"`
	} `yaml:"search"`

	DevAPI struct {
		Port     int    `yaml:"port"`
		DBPath   string `yaml:"db_path"`
		DBDriver string `yaml:"db_driver"`
	} `yaml:"devapi"`
}

// Default returns the configuration used when neither a file nor the
// environment says otherwise.
func Default() *Config {
	cfg := &Config{
		AppEnv:   "development",
		HTTPPort: 8080,
		GRPCPort: 50051,
	}
	cfg.API.BaseURL = "http://localhost:8000/api/v1"
	cfg.API.Timeout = 10 * time.Second
	cfg.Search.Debounce = 300 * time.Millisecond
	cfg.Search.MinLength = 3
	cfg.Search.SessionTTL = 30 * time.Minute
	cfg.DevAPI.Port = 8000
	cfg.DevAPI.DBPath = "./data/saneamento.db"
	cfg.DevAPI.DBDriver = "sqlite3"
	return cfg
}

// LoadFromEnv builds the configuration from defaults, the YAML file named by
// CONFIG_FILE when set, and environment variables, in that order.
func LoadFromEnv() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = getEnvInt("GRPC_PORT", cfg.GRPCPort)
	cfg.GRPCReflectionEnabled = getEnvBool("GRPC_REFLECTION_ENABLED", cfg.GRPCReflectionEnabled)
	cfg.API.BaseURL = getEnv("API_BASE_URL", cfg.API.BaseURL)
	cfg.API.Timeout = getEnvDuration("API_TIMEOUT", cfg.API.Timeout)
	cfg.Search.Debounce = getEnvDuration("SEARCH_DEBOUNCE", cfg.Search.Debounce)
	cfg.Search.MinLength = getEnvInt("SEARCH_MIN_LENGTH", cfg.Search.MinLength)
	cfg.Search.SessionTTL = getEnvDuration("SEARCH_SESSION_TTL", cfg.Search.SessionTTL)
	cfg.DevAPI.Port = getEnvInt("DEVAPI_PORT", cfg.DevAPI.Port)
	cfg.DevAPI.DBPath = getEnv("DEVAPI_DB_PATH", cfg.DevAPI.DBPath)
	cfg.DevAPI.DBDriver = getEnv("DEVAPI_DB_DRIVER", cfg.DevAPI.DBDriver)

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}
