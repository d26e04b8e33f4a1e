package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every runtime setting of the service.
type Config struct {
	Server    ServerConfig
	Assistant AssistantConfig
	Storage   StorageConfig
	Log       LogConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	assistant, err := loadAssistantConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Assistant: assistant,
		Storage: StorageConfig{
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "data/assistant.db"),
		},
		Log: LogConfig{
			Mode: getEnvOrDefault("LOG_MODE", "dev"),
		},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AssistantConfig tunes the conversational engine.
type AssistantConfig struct {
	// ReplyDelay simulates the assistant composing its answer so the
	// typing indicator is visible to the user.
	ReplyDelay      time.Duration
	DefaultLanguage string
}

func loadAssistantConfig() (AssistantConfig, error) {
	delay := 1500 * time.Millisecond
	if override, err := parseOptionalIntEnv("ASSISTANT_REPLY_DELAY_MS"); err != nil {
		return AssistantConfig{}, err
	} else if override != nil {
		if *override < 0 {
			return AssistantConfig{}, fmt.Errorf("ASSISTANT_REPLY_DELAY_MS must not be negative, got %d", *override)
		}
		delay = time.Duration(*override) * time.Millisecond
	}

	return AssistantConfig{
		ReplyDelay:      delay,
		DefaultLanguage: getEnvOrDefault("DEFAULT_LANGUAGE", "en"),
	}, nil
}

// StorageConfig locates the session snapshot database.
type StorageConfig struct {
	SQLitePath string
}

// LogConfig selects the logger output format.
type LogConfig struct {
	Mode string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
