package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Telegram
	TelegramBotToken string

	// Bot Service (backend expense API)
	BotServiceURL          string
	BotServiceAPIKeyHeader string
	BotServiceAPIKeySecret string
	RequestTimeout         time.Duration

	// Logging
	LogLevel string

	// Command journal (optional, empty path disables)
	JournalDBPath string

	// AMQP event publishing (optional, empty URL disables)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "3000"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),

		BotServiceURL:          getEnv("BOT_SERVICE_URL", "http://bot-service:8000"),
		BotServiceAPIKeyHeader: getEnv("BOT_SERVICE_API_KEY_HEADER", "X-API-Key"),
		BotServiceAPIKeySecret: getEnv("BOT_SERVICE_API_KEY_SECRET", ""),
		RequestTimeout:         getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		JournalDBPath: getEnv("JOURNAL_DB_PATH", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "connector"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_events"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.TelegramBotToken == "" {
		errors = append(errors, "TELEGRAM_BOT_TOKEN cannot be empty")
	}

	if c.BotServiceURL == "" {
		errors = append(errors, "bot service URL cannot be empty")
	} else if u, err := url.Parse(c.BotServiceURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid bot service URL: %v", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid bot service URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if c.BotServiceAPIKeyHeader == "" {
		errors = append(errors, "bot service API key header cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be positive", c.RequestTimeout))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange cannot be empty when AMQP URL is set")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue cannot be empty when AMQP URL is set")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
