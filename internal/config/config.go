package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	BaseURL    string
	LogLevel   string

	DatabaseURL string

	StripeSecretKey     string
	StripeWebhookSecret string

	KafkaBrokers []string

	AdminJWTSecret string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// Pence. Shipping is free once the subtotal reaches the threshold.
	ShippingFee           int64
	FreeShippingThreshold int64
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	cfg := &Config{
		ServerPort: envIntDefault("SERVER_PORT", 8080),
		BaseURL:    envDefault("BASE_URL", "http://localhost:8080"),
		LogLevel:   envDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		KafkaBrokers: csv(os.Getenv("KAFKA_BROKERS")),

		AdminJWTSecret: os.Getenv("ADMIN_JWT_SECRET"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: envIntDefault("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: envDefault("MAIL_FROM", "orders@bobaandbao.co.uk"),

		ShippingFee:           envInt64Default("SHIPPING_FEE_PENCE", 350),
		FreeShippingThreshold: envInt64Default("FREE_SHIPPING_THRESHOLD_PENCE", 4000),
	}

	return cfg, nil
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envInt64Default(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
