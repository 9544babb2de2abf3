package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the booking widget backend.
//
// Fields:
// - Env: The current environment (e.g., local, dev, prod).
// - Port: The port for the public widget API.
// - HealthPort: The port for the monitoring server.
// - ProviderType: The type of geocoding provider to use (google, postcodesio).
// - ProviderKey: The API key for the geocoding provider (required for Google).
// - MapsKey: The Google Maps API key used by the places search.
// - SearchRadius: The nearby-search radius in metres.
// - PromptAttempts: The bound on the postcode prompt retry loop.
// - SessionTTL: The idle lifetime of a widget session.
// - Mail: Configuration for the confirmation email sender.
type Config struct {
	Env            string
	Port           int
	HealthPort     int
	ProviderType   string
	ProviderKey    string
	MapsKey        string
	SearchRadius   int
	PromptAttempts int
	SessionTTL     time.Duration
	Mail           MailConfig
}

// MailConfig holds the confirmation email delivery settings. The sender
// address is fixed per deployment, never taken from user input.
type MailConfig struct {
	SendGridKey string // SendGridKey is the delivery credential.
	FromEmail   string // FromEmail is the fixed sender address.
	FromName    string // FromName is the display name on the sender address.
}

// MustLoad loads the configuration from the environment and returns a Config struct.
func MustLoad() *Config {
	_ = godotenv.Load()

	port, err := strconv.Atoi(setDefaultEnv("ASCLEPIUS_PORT", "8080"))
	if err != nil {
		panic("failed to parse port for API server from configuration")
	}

	healthPort, err := strconv.Atoi(setDefaultEnv("ASCLEPIUS_HEALTH_PORT", "9090"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	radius, err := strconv.Atoi(setDefaultEnv("ASCLEPIUS_SEARCH_RADIUS", "3000"))
	if err != nil {
		panic("failed to parse search radius from configuration, must be an integer type")
	}

	attempts, err := strconv.Atoi(setDefaultEnv("ASCLEPIUS_PROMPT_ATTEMPTS", "3"))
	if err != nil {
		panic("failed to parse prompt attempts from configuration, must be an integer type")
	}

	sessionTTL, err := time.ParseDuration(setDefaultEnv("ASCLEPIUS_SESSION_TTL", "30m"))
	if err != nil {
		panic("failed to parse session TTL from configuration")
	}

	return &Config{
		Env:            setDefaultEnv("ASCLEPIUS_ENV", "production"),
		Port:           port,
		HealthPort:     healthPort,
		ProviderType:   setDefaultEnv("ASCLEPIUS_PROVIDER_TYPE", "google"),
		ProviderKey:    os.Getenv("ASCLEPIUS_PROVIDER_KEY"),
		MapsKey:        os.Getenv("ASCLEPIUS_MAPS_KEY"),
		SearchRadius:   radius,
		PromptAttempts: attempts,
		SessionTTL:     sessionTTL,
		Mail: MailConfig{
			SendGridKey: os.Getenv("ASCLEPIUS_SENDGRID_KEY"),
			FromEmail:   setDefaultEnv("ASCLEPIUS_MAIL_FROM", "bookings@asclepius.example"),
			FromName:    setDefaultEnv("ASCLEPIUS_MAIL_FROM_NAME", "Asclepius Bookings"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
