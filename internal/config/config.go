package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	DatabaseURL      string
	ServerPort       string
	BaseURL          string
	FrontendURL      string
	EnableHSTS       bool
	OIDCProvider     string
	RedisURL         string
	RabbitMQURL      string
	RabbitMQPrefetch int
	StatsDebounceSec int
	WorkerDebugMode  bool
	ServerDebugMode  bool
	OTELEnabled      bool
	OTELEndpoint     string
}

// fileConfig mirrors Config for the optional YAML overlay. Pointer fields
// distinguish "absent" from a zero value so env vars still win.
type fileConfig struct {
	DatabaseURL      *string `yaml:"database_url"`
	ServerPort       *string `yaml:"server_port"`
	BaseURL          *string `yaml:"base_url"`
	FrontendURL      *string `yaml:"frontend_url"`
	EnableHSTS       *bool   `yaml:"enable_hsts"`
	OIDCProvider     *string `yaml:"oidc_provider"`
	RedisURL         *string `yaml:"redis_url"`
	RabbitMQURL      *string `yaml:"rabbitmq_url"`
	RabbitMQPrefetch *int    `yaml:"rabbitmq_prefetch"`
	StatsDebounceSec *int    `yaml:"stats_debounce_seconds"`
}

// Load loads configuration from environment variables. If CONFIG_FILE points
// at a YAML file its values fill in anything the environment leaves unset.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:3000"),
		EnableHSTS:       getEnvBool("ENABLE_HSTS", false),
		OIDCProvider:     getEnv("OIDC_PROVIDER", "cognito"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQPrefetch: getEnvInt("RABBITMQ_PREFETCH", 1),
		StatsDebounceSec: getEnvInt("STATS_DEBOUNCE_SECONDS", 5),
		WorkerDebugMode:  getEnvBool("WORKER_DEBUG_MODE", false),
		ServerDebugMode:  getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:      getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required for job queueing")
	}

	return cfg, nil
}

// applyFile fills unset fields from a YAML overlay. Fields with a matching
// environment variable present keep the environment value.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}

	overlayString(&c.DatabaseURL, "DATABASE_URL", fc.DatabaseURL)
	overlayString(&c.ServerPort, "SERVER_PORT", fc.ServerPort)
	overlayString(&c.BaseURL, "BASE_URL", fc.BaseURL)
	overlayString(&c.FrontendURL, "FRONTEND_URL", fc.FrontendURL)
	overlayBool(&c.EnableHSTS, "ENABLE_HSTS", fc.EnableHSTS)
	overlayString(&c.OIDCProvider, "OIDC_PROVIDER", fc.OIDCProvider)
	overlayString(&c.RedisURL, "REDIS_URL", fc.RedisURL)
	overlayString(&c.RabbitMQURL, "RABBITMQ_URL", fc.RabbitMQURL)
	overlayInt(&c.RabbitMQPrefetch, "RABBITMQ_PREFETCH", fc.RabbitMQPrefetch)
	overlayInt(&c.StatsDebounceSec, "STATS_DEBOUNCE_SECONDS", fc.StatsDebounceSec)

	return nil
}

func overlayString(dst *string, envKey string, v *string) {
	if v != nil && os.Getenv(envKey) == "" {
		*dst = *v
	}
}

func overlayBool(dst *bool, envKey string, v *bool) {
	if v != nil && os.Getenv(envKey) == "" {
		*dst = *v
	}
}

func overlayInt(dst *int, envKey string, v *int) {
	if v != nil && os.Getenv(envKey) == "" {
		*dst = *v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
