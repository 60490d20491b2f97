package config

import (
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"PORT",
	"GEMINI_API_KEY",
	"ELEVENLABS_API_KEY",
	"SUPABASE_URL",
	"SUPABASE_KEY",
	"GOOGLE_CREDENTIALS_BASE64",
	"EMAIL_HOST",
	"EMAIL_PORT",
	"EMAIL_SECURE",
	"EMAIL_USER",
	"EMAIL_PASS",
	"EMAIL_FROM",
	"BARKEEP_CHAT_MODEL",
	"BARKEEP_ROUTER_MODEL",
	"BARKEEP_VISION_MODEL",
	"BARKEEP_GEOCODER_BASE_URL",
	"BARKEEP_GEOCODER_USER_AGENT",
	"BARKEEP_EXPO_PUSH_URL",
	"BARKEEP_CORS_ORIGINS",
	"BARKEEP_WS_MAX_MESSAGE_BYTES",
	"BARKEEP_WS_PING_INTERVAL",
	"BARKEEP_WS_WRITE_TIMEOUT",
	"BARKEEP_WS_READ_TIMEOUT",
	"BARKEEP_WS_OUTBOUND_QUEUE",
	"BARKEEP_READ_HEADER_TIMEOUT",
	"BARKEEP_SHUTDOWN_GRACE_PERIOD",
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
	t.Setenv("ELEVENLABS_API_KEY", "test-eleven-key")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_KEY", "test-supabase-key")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Addr != ":3000" {
		t.Fatalf("Addr = %q, want :3000", cfg.Addr)
	}
	if cfg.ChatModel != "gemini-2.5-flash" {
		t.Fatalf("ChatModel = %q", cfg.ChatModel)
	}
	if cfg.RouterModel != "gemini-2.0-flash-lite-preview-02-05" {
		t.Fatalf("RouterModel = %q", cfg.RouterModel)
	}
	if cfg.VisionModel != "gemini-2.0-flash" {
		t.Fatalf("VisionModel = %q", cfg.VisionModel)
	}
	if cfg.GeocoderBaseURL != "https://nominatim.openstreetmap.org" {
		t.Fatalf("GeocoderBaseURL = %q", cfg.GeocoderBaseURL)
	}
	if cfg.ExpoPushURL != "https://exp.host/--/api/v2/push/send" {
		t.Fatalf("ExpoPushURL = %q", cfg.ExpoPushURL)
	}
	if cfg.WSMaxMessageBytes != 64*1024 {
		t.Fatalf("WSMaxMessageBytes = %d", cfg.WSMaxMessageBytes)
	}
	if cfg.WSPingInterval != 20*time.Second {
		t.Fatalf("WSPingInterval = %v", cfg.WSPingInterval)
	}
	if cfg.ShutdownGracePeriod != 30*time.Second {
		t.Fatalf("ShutdownGracePeriod = %v", cfg.ShutdownGracePeriod)
	}
	if cfg.EmailEnabled() {
		t.Fatalf("EmailEnabled() = true with no EMAIL_HOST")
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadFromEnv_MissingRequiredNamesVariable(t *testing.T) {
	for _, missing := range []string{
		"GEMINI_API_KEY",
		"ELEVENLABS_API_KEY",
		"SUPABASE_URL",
		"SUPABASE_KEY",
	} {
		t.Run(missing, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(missing, "")

			_, err := LoadFromEnv()
			if err == nil {
				t.Fatalf("expected error with %s unset", missing)
			}
			if !strings.Contains(err.Error(), missing) {
				t.Fatalf("error %q does not name %s", err, missing)
			}
		})
	}
}

func TestLoadFromEnv_PortOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8081")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Addr != ":8081" {
		t.Fatalf("Addr = %q, want :8081", cfg.Addr)
	}
}

func TestLoadFromEnv_PortRejectsGarbage(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "not-a-port")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatalf("expected error for non-numeric PORT")
	}
}

func TestLoadFromEnv_EmailGroup(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMAIL_HOST", "smtp.example.com")
	t.Setenv("EMAIL_USER", "bot@example.com")

	_, err := LoadFromEnv()
	if err == nil || !strings.Contains(err.Error(), "EMAIL_PASS") {
		t.Fatalf("expected EMAIL_PASS error, got %v", err)
	}

	t.Setenv("EMAIL_PASS", "hunter2")
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if !cfg.EmailEnabled() {
		t.Fatalf("EmailEnabled() = false")
	}
	if cfg.EmailPort != 587 {
		t.Fatalf("EmailPort = %d, want 587", cfg.EmailPort)
	}
	if cfg.EmailFrom != "bot@example.com" {
		t.Fatalf("EmailFrom = %q, want the user fallback", cfg.EmailFrom)
	}
}

func TestLoadFromEnv_CORSOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BARKEEP_CORS_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if _, ok := cfg.CORSAllowedOrigins["https://app.example.com"]; !ok {
		t.Fatalf("missing trimmed origin: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadFromEnv_InvalidDurationFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BARKEEP_WS_PING_INTERVAL", "often")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.WSPingInterval != 20*time.Second {
		t.Fatalf("WSPingInterval = %v, want default", cfg.WSPingInterval)
	}
}
