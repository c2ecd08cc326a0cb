package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort    string
	DataPath      string
	TokenSecret   string
	TokenDuration time.Duration

	// Event archive (pruned-event retention beyond the 7-day window)
	ArchiveType string
	ArchivePath string
	ArchiveURL  string

	// Email alerts via Amazon SES
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string
	EmailDebug   bool

	// Speech
	SpeechCommand  string
	SpeechPlayer   string
	AudioCachePath string

	// OAuth sign-in
	OAuthRedirectBaseURL string
	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:    getEnv("PORT", "8080"),
		DataPath:      getEnv("DATA_PATH", "./data"),
		TokenSecret:   getEnv("TOKEN_SECRET", "carevoice-dev-secret"),
		TokenDuration: getDurationEnv("TOKEN_DURATION", 24*time.Hour),

		ArchiveType: getEnv("ARCHIVE_TYPE", "sqlite"),
		ArchivePath: getEnv("ARCHIVE_PATH", "./carevoice_archive.db"),
		ArchiveURL:  getEnv("ARCHIVE_URL", ""),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "CareVoice"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),
		EmailDebug:   getBoolEnv("EMAIL_DEBUG", false),

		SpeechCommand:  getEnv("SPEECH_COMMAND", "say"),
		SpeechPlayer:   getEnv("SPEECH_PLAYER", "afplay"),
		AudioCachePath: getEnv("AUDIO_CACHE_PATH", "./audio-cache"),

		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		FacebookClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
		FacebookClientSecret: getEnv("FACEBOOK_CLIENT_SECRET", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv reads a duration environment variable ("30m", "12h") or
// returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getBoolEnv reads a boolean environment variable or returns a default value
func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
