package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPPort string

	DatabaseURL string
	RabbitMQURL string

	MailHost     string
	MailPort     int
	MailUser     string
	MailPass     string
	MailFrom     string
	MailNotifyTo string

	WhatsAppToken    string
	WhatsAppPhoneID  string
	WhatsAppAPIURL   string
	WhatsAppNotifyTo string
	WhatsAppTemplate string

	CORSAllowedOrigins []string

	// StaleLeadAfter = 0 desliga o arquivamento automático.
	StaleLeadAfter    time.Duration
	StaleLeadSchedule string
}

func (c *Config) Development() bool {
	return c.AppEnv == "development"
}

// UseMemoryStore: sem DATABASE_URL em development a API sobe com os
// repositórios em memória.
func (c *Config) UseMemoryStore() bool {
	return c.DatabaseURL == "" && c.Development()
}

func (c *Config) MailEnabled() bool {
	return c.MailHost != "" && c.MailNotifyTo != ""
}

func (c *Config) WhatsAppEnabled() bool {
	return c.WhatsAppToken != "" && c.WhatsAppPhoneID != "" && c.WhatsAppNotifyTo != ""
}

// Load lê o .env (se existir) e depois as variáveis de ambiente.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AppEnv:             valueOr(getenv("APP_ENV"), "production"),
		LogLevel:           getenv("LOG_LEVEL"),
		HTTPPort:           valueOr(getenv("HTTP_PORT"), "8080"),
		DatabaseURL:        getenv("DATABASE_URL"),
		RabbitMQURL:        getenv("RABBITMQ_URL"),
		MailHost:           getenv("MAIL_HOST"),
		MailUser:           getenv("MAIL_USER"),
		MailPass:           getenv("MAIL_PASS"),
		MailFrom:           valueOr(getenv("MAIL_FROM"), getenv("MAIL_USER")),
		MailNotifyTo:       getenv("MAIL_NOTIFY_TO"),
		WhatsAppToken:      getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneID:    getenv("WHATSAPP_PHONE_ID"),
		WhatsAppAPIURL:     getenv("WHATSAPP_API_URL"),
		WhatsAppNotifyTo:   getenv("WHATSAPP_NOTIFY_TO"),
		WhatsAppTemplate:   valueOr(getenv("WHATSAPP_TEMPLATE"), "crm_lead_event"),
		CORSAllowedOrigins: splitList(valueOr(getenv("CORS_ALLOWED_ORIGINS"), "http://localhost:5173")),
		StaleLeadSchedule:  valueOr(getenv("STALE_LEAD_SCHEDULE"), "@every 1h"),
	}

	var errs []error

	port, err := strconv.Atoi(valueOr(getenv("MAIL_PORT"), "587"))
	if err != nil {
		errs = append(errs, fmt.Errorf("MAIL_PORT inválido: %w", err))
	}
	cfg.MailPort = port

	if raw := getenv("STALE_LEAD_DAYS"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			errs = append(errs, fmt.Errorf("STALE_LEAD_DAYS inválido: %q", raw))
		} else {
			cfg.StaleLeadAfter = time.Duration(days) * 24 * time.Hour
		}
	}

	if cfg.DatabaseURL == "" && !cfg.Development() {
		errs = append(errs, errors.New("DATABASE_URL é obrigatória fora de development"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
