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

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	DBPath          string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	FeedLimit     int
	AlertCooldown time.Duration

	// Twilio SMS alerting. Disabled when the credentials are unset so the
	// service can run in environments without an alert channel.
	SMSEnabled       bool
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	AlertNumber      string
	TwilioTimeout    time.Duration

	// Optional Kafka ingress for gateway deployments where stations publish
	// readings to a broker instead of POSTing directly.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
}

// Load reads configuration from the environment (and a .env file if one is
// present), applying defaults where unset.
func Load() (*Config, error) {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cooldown, err := parseDuration("ALERT_COOLDOWN", "10m")
	if err != nil {
		return nil, err
	}
	twilioTimeout, err := parseDuration("TWILIO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	feedLimit, err := parsePositiveInt("FEED_LIMIT", 200)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		DBPath:          envOrDefault("DB_PATH", "data/flood_data.db"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		FeedLimit:       feedLimit,
		AlertCooldown:   cooldown,

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		AlertNumber:      os.Getenv("ALERT_NUMBER"),
		TwilioTimeout:    twilioTimeout,

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "sensor-readings"),
		KafkaGroupID: envOrDefault("KAFKA_GROUP_ID", "flood-watch"),
	}

	cfg.SMSEnabled = cfg.TwilioAccountSID != ""
	if v := os.Getenv("SMS_ENABLED"); v != "" {
		cfg.SMSEnabled = v == "true"
	}
	if cfg.SMSEnabled {
		missing := []string{}
		if cfg.TwilioAccountSID == "" {
			missing = append(missing, "TWILIO_ACCOUNT_SID")
		}
		if cfg.TwilioAuthToken == "" {
			missing = append(missing, "TWILIO_AUTH_TOKEN")
		}
		if cfg.TwilioFromNumber == "" {
			missing = append(missing, "TWILIO_FROM_NUMBER")
		}
		if cfg.AlertNumber == "" {
			missing = append(missing, "ALERT_NUMBER")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("SMS_ENABLED but missing: %s", strings.Join(missing, ", "))
		}
	}

	cfg.KafkaEnabled = os.Getenv("KAFKA_ENABLED") == "true"
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
