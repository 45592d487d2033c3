package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the scheduler service.
type Config struct {
	TelegramToken string
	DatabaseURL   string

	// Text-generation endpoint (Groq or any OpenAI-compatible API).
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	// SearchBaseURL overrides the snippet-search endpoint; empty means
	// the public one.
	SearchBaseURL string

	// ReminderTime is the local HH:MM at which the daily digest runs.
	ReminderTime string

	LogLevel    string
	LogEncoding string
}

// Load reads configuration from a .env file (when present) and the
// environment, with sane defaults.
func Load() (Config, error) {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LLMAPIKey:     strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		LLMBaseURL:    strings.TrimSpace(os.Getenv("LLM_BASE_URL")),
		LLMModel:      strings.TrimSpace(os.Getenv("LLM_MODEL")),
		SearchBaseURL: strings.TrimSpace(os.Getenv("SEARCH_BASE_URL")),
		ReminderTime:  strings.TrimSpace(os.Getenv("REMINDER_TIME")),
		LogLevel:      strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		LogEncoding:   strings.TrimSpace(os.Getenv("LOG_ENCODING")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "skillforge.db"
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = "llama-3.1-8b-instant"
	}
	if cfg.ReminderTime == "" {
		cfg.ReminderTime = "08:00"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}
