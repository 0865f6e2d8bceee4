package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the voice assistant.
// Values come from the environment; an optional .env.local file is
// loaded first so local development does not need exported variables.
type Config struct {
	// Restaurant backend
	BackendBaseURL string
	BackendEmail   string
	BackendPass    string

	// LiveKit server API
	LiveKitURL       string
	LiveKitAPIKey    string
	LiveKitAPISecret string

	// Twilio messaging
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioAPIKeySID    string
	TwilioAPIKeySecret string
	TwilioFromNumber   string // A2P certified sender number

	// Business timezone used for spoken times, pickup estimates and
	// reservation date math. IANA name, e.g. "America/Chicago".
	Timezone string

	// Publicly reachable menu image URLs for MMS
	MenuImageURLs []string
}

// Load reads configuration from .env.local (if present) and the environment
func Load() *Config {
	_ = godotenv.Load(".env.local")

	cfg := &Config{
		BackendBaseURL:     getenv("BACKEND_BASE_URL", "https://www.miaojieai.com"),
		BackendEmail:       os.Getenv("BACKEND_EMAIL"),
		BackendPass:        os.Getenv("BACKEND_PASSWORD"),
		LiveKitURL:         os.Getenv("LIVEKIT_URL"),
		LiveKitAPIKey:      os.Getenv("LIVEKIT_API_KEY"),
		LiveKitAPISecret:   os.Getenv("LIVEKIT_API_SECRET"),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioAPIKeySID:    os.Getenv("TWILIO_API_KEY_SID"),
		TwilioAPIKeySecret: os.Getenv("TWILIO_API_KEY_SECRET"),
		TwilioFromNumber:   os.Getenv("TWILIO_FROM_NUMBER"),
		Timezone:           getenv("BUSINESS_TIMEZONE", "America/Chicago"),
	}

	for _, key := range []string{"MENU_IMAGE_1", "MENU_IMAGE_2"} {
		if url := os.Getenv(key); url != "" {
			cfg.MenuImageURLs = append(cfg.MenuImageURLs, url)
		}
	}

	return cfg
}

// Location resolves the configured business timezone, falling back to UTC
// if the name cannot be resolved
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
