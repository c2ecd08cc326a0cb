package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.DataPath != "./data" {
		t.Errorf("DataPath = %q, want ./data", cfg.DataPath)
	}
	if cfg.TokenDuration != 24*time.Hour {
		t.Errorf("TokenDuration = %v, want 24h", cfg.TokenDuration)
	}
	if cfg.ArchiveType != "sqlite" {
		t.Errorf("ArchiveType = %q, want sqlite", cfg.ArchiveType)
	}
	if cfg.SESFromEmail != "" {
		t.Errorf("SESFromEmail = %q, want empty (email disabled by default)", cfg.SESFromEmail)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_PATH", "/var/lib/carevoice")
	t.Setenv("SPEECH_COMMAND", "espeak")
	t.Setenv("EMAIL_DEBUG", "true")
	t.Setenv("TOKEN_DURATION", "30m")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.DataPath != "/var/lib/carevoice" {
		t.Errorf("DataPath = %q, want /var/lib/carevoice", cfg.DataPath)
	}
	if cfg.SpeechCommand != "espeak" {
		t.Errorf("SpeechCommand = %q, want espeak", cfg.SpeechCommand)
	}
	if !cfg.EmailDebug {
		t.Error("EmailDebug = false, want true")
	}
	if cfg.TokenDuration != 30*time.Minute {
		t.Errorf("TokenDuration = %v, want 30m", cfg.TokenDuration)
	}
}

func TestGetBoolEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("EMAIL_DEBUG", "definitely")

	cfg := Load()
	if cfg.EmailDebug {
		t.Error("EmailDebug should fall back to default on unparseable value")
	}
}

func TestGetDurationEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("TOKEN_DURATION", "a fortnight")

	cfg := Load()
	if cfg.TokenDuration != 24*time.Hour {
		t.Error("TokenDuration should fall back to default on unparseable value")
	}
}
