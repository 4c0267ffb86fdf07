package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Payment providers understood by the gateway factory
const (
	ProviderStripe   = "stripe"
	ProviderRazorpay = "razorpay"
)

// Config holds all configuration for the application
type Config struct {
	Port   string
	Env    string
	LogDir string

	MongoURI           string
	DBName             string
	ParcelsCollection  string
	PaymentsCollection string
	MongoTransactions  bool
	DBTimeout          time.Duration

	PaymentProvider  string
	StripeSecret     string
	RazorpayKey      string
	RazorpaySecret   string
	Currency         string
	ClientSideDomain string

	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// LoadConfig loads configuration from the .env file (if present) and the environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function. Split out of LoadConfig so
// tests can feed a map instead of the process environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	config := &Config{
		Port:   get("PORT", "3000"),
		Env:    get("ENV", "development"),
		LogDir: get("LOG_DIR", "logs"),

		MongoURI:           get("MONGODB_URI", ""),
		DBName:             get("DB_NAME", "zapShift_DB"),
		ParcelsCollection:  get("PARCELS_COLLECTION", "parcels_collection"),
		PaymentsCollection: get("PAYMENTS_COLLECTION", "payments_collection"),

		PaymentProvider:  strings.ToLower(get("PAYMENT_PROVIDER", ProviderStripe)),
		StripeSecret:     get("STRIPE_SECRET", ""),
		RazorpayKey:      get("RAZORPAY_KEY", ""),
		RazorpaySecret:   get("RAZORPAY_SECRET", ""),
		Currency:         strings.ToLower(get("PAYMENT_CURRENCY", "usd")),
		ClientSideDomain: strings.TrimRight(get("CLIENT_SIDE_DOMAIN", "http://localhost:5173"), "/"),

		RedisAddr:     get("REDIS_ADDR", ""),
		RedisUsername: get("REDIS_USERNAME", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),

		SMTPHost:     get("SMTP_HOST", ""),
		SMTPUsername: get("SMTP_USERNAME", ""),
		SMTPPassword: get("SMTP_PASSWORD", ""),
		SMTPFrom:     get("SMTP_FROM", ""),
	}

	if config.MongoURI == "" {
		user, pass, host := getenv("DB_USER"), getenv("DB_PASS"), get("DB_HOST", "")
		if user == "" || host == "" {
			return nil, errors.New("MONGODB_URI or DB_USER/DB_PASS/DB_HOST must be set")
		}
		config.MongoURI = fmt.Sprintf("mongodb+srv://%s:%s@%s/?appName=Cluster0",
			url.QueryEscape(user), url.QueryEscape(pass), host)
	}

	var err error
	if config.MongoTransactions, err = strconv.ParseBool(get("MONGO_TRANSACTIONS", "true")); err != nil {
		return nil, fmt.Errorf("invalid MONGO_TRANSACTIONS: %v", err)
	}
	if config.DBTimeout, err = time.ParseDuration(get("DB_TIMEOUT", "20s")); err != nil {
		return nil, fmt.Errorf("invalid DB_TIMEOUT: %v", err)
	}
	if config.LockTTL, err = time.ParseDuration(get("LOCK_TTL", "30s")); err != nil {
		return nil, fmt.Errorf("invalid LOCK_TTL: %v", err)
	}
	if config.RedisDB, err = strconv.Atoi(get("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %v", err)
	}
	if config.SMTPPort, err = strconv.Atoi(get("SMTP_PORT", "587")); err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %v", err)
	}

	switch config.PaymentProvider {
	case ProviderStripe:
		if config.StripeSecret == "" {
			return nil, errors.New("STRIPE_SECRET is required for the stripe provider")
		}
	case ProviderRazorpay:
		if config.RazorpayKey == "" || config.RazorpaySecret == "" {
			return nil, errors.New("RAZORPAY_KEY and RAZORPAY_SECRET are required for the razorpay provider")
		}
	default:
		return nil, fmt.Errorf("unknown PAYMENT_PROVIDER %q", config.PaymentProvider)
	}

	return config, nil
}

// MailEnabled reports whether SMTP settings are present
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}
