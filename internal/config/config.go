// Package config provides YAML configuration loading with environment
// overrides and validation.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Scraping controls the HTTP behavior shared by every adapter.
type Scraping struct {
	UserAgent         string  `yaml:"user_agent"`
	DelaySeconds      float64 `yaml:"delay_between_requests" validate:"gte=0"`
	TimeoutSeconds    int     `yaml:"timeout" validate:"gte=1"`
	MaxRetries        int     `yaml:"max_retries" validate:"gte=0,lte=10"`
	FetchDescriptions bool    `yaml:"fetch_descriptions"`
	// MaxConcurrent bounds how many employers are scraped at once.
	// 1 preserves the original strictly sequential behavior.
	MaxConcurrent int `yaml:"max_concurrent" validate:"gte=1,lte=16"`
}

// Skills configures the matcher keyword lists and user synonym groups.
type Skills struct {
	Primary      []string   `yaml:"primary"`
	Technical    []string   `yaml:"technical"`
	Exclude      []string   `yaml:"exclude"`
	RoleSynonyms [][]string `yaml:"role_synonyms"`
	TechSynonyms [][]string `yaml:"tech_synonyms"`
}

// Locations configures location scoring.
type Locations struct {
	Country       string   `yaml:"country" validate:"omitempty,len=2"`
	Preferred     []string `yaml:"preferred"`
	IncludeRemote bool     `yaml:"include_remote"`
}

// Experience configures the years-of-experience ceiling.
type Experience struct {
	MaxYears int `yaml:"max_years" validate:"gte=0"`
}

// Telegram holds bot credentials for Telegram notifications.
type Telegram struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

// Email holds SMTP settings for email notifications.
type Email struct {
	SMTPServer     string `yaml:"smtp_server"`
	SMTPPort       int    `yaml:"smtp_port"`
	SenderEmail    string `yaml:"sender_email"`
	SenderPassword string `yaml:"sender_password"`
	RecipientEmail string `yaml:"recipient_email"`
}

// Discord holds the webhook target for Discord notifications.
type Discord struct {
	WebhookURL string `yaml:"webhook_url"`
}

// Notification selects and configures the delivery channel.
type Notification struct {
	Method   string   `yaml:"method" validate:"omitempty,oneof=console email telegram discord"`
	Telegram Telegram `yaml:"telegram"`
	Email    Email    `yaml:"email"`
	Discord  Discord  `yaml:"discord"`
}

// Database points the history store at PostgreSQL.
type Database struct {
	URL string `yaml:"url"`
}

// Config is the root configuration document.
type Config struct {
	// Sources lists the company CSV files to scrape.
	Sources      []string     `yaml:"sources"`
	Scraping     Scraping     `yaml:"scraping"`
	Skills       Skills       `yaml:"skills"`
	Locations    Locations    `yaml:"locations"`
	Experience   Experience   `yaml:"experience"`
	Notification Notification `yaml:"notification"`
	Database     Database     `yaml:"database"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Scraping: Scraping{
			UserAgent:         "Mozilla/5.0 (compatible; JobScout/1.0)",
			DelaySeconds:      2,
			TimeoutSeconds:    30,
			MaxRetries:        2,
			FetchDescriptions: true,
			MaxConcurrent:     1,
		},
		Locations:    Locations{IncludeRemote: true},
		Experience:   Experience{MaxYears: 5},
		Notification: Notification{Method: "console"},
	}
}

// Load reads the YAML config at path, fills unset fields from Default, and
// applies environment overrides. A missing file is not an error; defaults
// are returned so a bare checkout still runs.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Re-apply defaults the YAML zeroed out.
	if cfg.Scraping.UserAgent == "" {
		cfg.Scraping.UserAgent = Default().Scraping.UserAgent
	}
	if cfg.Scraping.TimeoutSeconds == 0 {
		cfg.Scraping.TimeoutSeconds = Default().Scraping.TimeoutSeconds
	}
	if cfg.Scraping.MaxConcurrent == 0 {
		cfg.Scraping.MaxConcurrent = 1
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets deployment secrets win over the YAML file, so CI
// schedules work without committing credentials.
func applyEnvOverrides(cfg *Config) {
	if sender := os.Getenv("SENDER_EMAIL"); sender != "" {
		cfg.Notification.Method = "email"
		cfg.Notification.Email = Email{
			SMTPServer:     envOr("SMTP_SERVER", "smtp.gmail.com"),
			SMTPPort:       envIntOr("SMTP_PORT", 587),
			SenderEmail:    sender,
			SenderPassword: os.Getenv("SENDER_PASSWORD"),
			RecipientEmail: envOr("RECIPIENT_EMAIL", sender),
		}
	} else if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Notification.Method = "telegram"
		cfg.Notification.Telegram.BotToken = token
		if chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64); err == nil {
			cfg.Notification.Telegram.ChatID = chatID
		}
	} else if hook := os.Getenv("DISCORD_WEBHOOK_URL"); hook != "" {
		cfg.Notification.Method = "discord"
		cfg.Notification.Discord.WebhookURL = hook
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
}

// Validate checks the configuration with struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
