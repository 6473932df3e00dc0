package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Plan generator backends selectable through PLAN_GENERATOR.
const (
	GeneratorMock   = "mock"
	GeneratorGroq   = "groq"
	GeneratorGemini = "gemini"
)

const (
	defaultAPIURL       = "http://localhost:8000/api"
	defaultTokenPath    = ".data/session.token"
	defaultDatabasePath = ".data/metrics.db"
	defaultPlanLatency  = 2 * time.Second
	defaultScanLatency  = 3 * time.Second
	defaultPort         = "8080"
)

// Config holds the configuration for the application.
type Config struct {
	APIURL       string
	TokenPath    string
	DatabasePath string

	PlanGenerator string
	GeminiAPIKey  string
	GroqAPIKey    string
	PlanLatency   time.Duration
	ScanLatency   time.Duration

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64

	LogMode string
	LogFile string
	Port    string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	planGenerator := envOr("PLAN_GENERATOR", GeneratorMock)

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	groqAPIKey := os.Getenv("GROQ_API_KEY")
	switch planGenerator {
	case GeneratorMock:
	case GeneratorGroq:
		if groqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	case GeneratorGemini:
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("PLAN_GENERATOR must be one of mock, groq, gemini; got %q", planGenerator)
	}

	planLatency, err := durationOr("PLAN_LATENCY", defaultPlanLatency)
	if err != nil {
		return nil, err
	}
	scanLatency, err := durationOr("SCAN_LATENCY", defaultScanLatency)
	if err != nil {
		return nil, err
	}

	// Telegram Config (Optional for CLI, required for Bot)
	allowed, err := parseIDs(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}
	var adminID int64
	if s := os.Getenv("ADMIN_TELEGRAM_ID"); s != "" {
		adminID, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	return &Config{
		APIURL:                 strings.TrimRight(envOr("VITALPLAN_API_URL", defaultAPIURL), "/"),
		TokenPath:              envOr("TOKEN_PATH", defaultTokenPath),
		DatabasePath:           envOr("DATABASE_PATH", defaultDatabasePath),
		PlanGenerator:          planGenerator,
		GeminiAPIKey:           geminiAPIKey,
		GroqAPIKey:             groqAPIKey,
		PlanLatency:            planLatency,
		ScanLatency:            scanLatency,
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
		LogMode:                envOr("LOG_MODE", "development"),
		LogFile:                os.Getenv("LOG_FILE"),
		Port:                   envOr("PORT", defaultPort),
	}, nil
}

// RequireTelegram checks the settings the bot cannot start without.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q: expected a duration such as 2s", key, s)
	}
	return d, nil
}

func parseIDs(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
