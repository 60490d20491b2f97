// Package config loads the server configuration from the environment.
// Provider credentials keep the variable names the deployment already
// uses; operational knobs are namespaced under BARKEEP_.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr string

	// Provider credentials.
	GeminiAPIKey            string
	ElevenLabsAPIKey        string
	SupabaseURL             string
	SupabaseKey             string
	GoogleCredentialsBase64 string // optional, falls back to ADC

	// Model selection.
	ChatModel   string
	RouterModel string
	VisionModel string

	// Geocoding (Nominatim usage policy requires an identifying agent).
	GeocoderBaseURL   string
	GeocoderUserAgent string

	// Registration email over SMTP. The group is optional; when Host is
	// set the credentials must be complete.
	EmailHost   string
	EmailPort   int
	EmailSecure bool
	EmailUser   string
	EmailPass   string
	EmailFrom   string

	// Push notifications are proxied to the Expo push service.
	ExpoPushURL string

	// CORS
	CORSAllowedOrigins map[string]struct{} // empty => disabled

	// Live WebSocket sessions.
	WSMaxMessageBytes   int64
	WSPingInterval      time.Duration
	WSWriteTimeout      time.Duration
	WSReadTimeout       time.Duration
	WSOutboundQueueSize int

	// Operational defaults.
	ReadHeaderTimeout   time.Duration
	ShutdownGracePeriod time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                    ":" + envOr("PORT", "3000"),
		GeminiAPIKey:            strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		ElevenLabsAPIKey:        strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY")),
		SupabaseURL:             strings.TrimSpace(os.Getenv("SUPABASE_URL")),
		SupabaseKey:             strings.TrimSpace(os.Getenv("SUPABASE_KEY")),
		GoogleCredentialsBase64: strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_BASE64")),
		ChatModel:               envOr("BARKEEP_CHAT_MODEL", "gemini-2.5-flash"),
		RouterModel:             envOr("BARKEEP_ROUTER_MODEL", "gemini-2.0-flash-lite-preview-02-05"),
		VisionModel:             envOr("BARKEEP_VISION_MODEL", "gemini-2.0-flash"),
		GeocoderBaseURL:         envOr("BARKEEP_GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent:       envOr("BARKEEP_GEOCODER_USER_AGENT", "barkeep/1.0"),
		EmailHost:               strings.TrimSpace(os.Getenv("EMAIL_HOST")),
		EmailPort:               envIntOr("EMAIL_PORT", 587),
		EmailSecure:             envBoolOr("EMAIL_SECURE", false),
		EmailUser:               strings.TrimSpace(os.Getenv("EMAIL_USER")),
		EmailPass:               os.Getenv("EMAIL_PASS"),
		EmailFrom:               strings.TrimSpace(os.Getenv("EMAIL_FROM")),
		ExpoPushURL:             envOr("BARKEEP_EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		CORSAllowedOrigins:      make(map[string]struct{}),
		WSMaxMessageBytes:       envInt64Or("BARKEEP_WS_MAX_MESSAGE_BYTES", 64*1024),
		WSPingInterval:          envDurationOr("BARKEEP_WS_PING_INTERVAL", 20*time.Second),
		WSWriteTimeout:          envDurationOr("BARKEEP_WS_WRITE_TIMEOUT", 5*time.Second),
		WSReadTimeout:           envDurationOr("BARKEEP_WS_READ_TIMEOUT", 0),
		WSOutboundQueueSize:     envIntOr("BARKEEP_WS_OUTBOUND_QUEUE", 128),
		ReadHeaderTimeout:       envDurationOr("BARKEEP_READ_HEADER_TIMEOUT", 10*time.Second),
		ShutdownGracePeriod:     envDurationOr("BARKEEP_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
	}

	for _, origin := range splitCSV(os.Getenv("BARKEEP_CORS_ORIGINS")) {
		cfg.CORSAllowedOrigins[origin] = struct{}{}
	}

	if cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("GEMINI_API_KEY must be set")
	}
	if cfg.ElevenLabsAPIKey == "" {
		return Config{}, fmt.Errorf("ELEVENLABS_API_KEY must be set")
	}
	if cfg.SupabaseURL == "" {
		return Config{}, fmt.Errorf("SUPABASE_URL must be set")
	}
	if cfg.SupabaseKey == "" {
		return Config{}, fmt.Errorf("SUPABASE_KEY must be set")
	}
	if port := strings.TrimPrefix(cfg.Addr, ":"); port == "" {
		return Config{}, fmt.Errorf("PORT must not be empty")
	} else if _, err := strconv.Atoi(port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric: %q", port)
	}
	if strings.TrimSpace(cfg.ChatModel) == "" {
		return Config{}, fmt.Errorf("BARKEEP_CHAT_MODEL must not be empty")
	}
	if strings.TrimSpace(cfg.RouterModel) == "" {
		return Config{}, fmt.Errorf("BARKEEP_ROUTER_MODEL must not be empty")
	}
	if strings.TrimSpace(cfg.VisionModel) == "" {
		return Config{}, fmt.Errorf("BARKEEP_VISION_MODEL must not be empty")
	}
	if strings.TrimSpace(cfg.GeocoderBaseURL) == "" {
		return Config{}, fmt.Errorf("BARKEEP_GEOCODER_BASE_URL must not be empty")
	}
	if strings.TrimSpace(cfg.GeocoderUserAgent) == "" {
		return Config{}, fmt.Errorf("BARKEEP_GEOCODER_USER_AGENT must not be empty")
	}
	if cfg.EmailHost != "" {
		if cfg.EmailPort <= 0 || cfg.EmailPort > 65535 {
			return Config{}, fmt.Errorf("EMAIL_PORT must be a valid port, got %d", cfg.EmailPort)
		}
		if cfg.EmailUser == "" {
			return Config{}, fmt.Errorf("EMAIL_USER must be set when EMAIL_HOST is set")
		}
		if cfg.EmailPass == "" {
			return Config{}, fmt.Errorf("EMAIL_PASS must be set when EMAIL_HOST is set")
		}
	}
	if strings.TrimSpace(cfg.ExpoPushURL) == "" {
		return Config{}, fmt.Errorf("BARKEEP_EXPO_PUSH_URL must not be empty")
	}
	if cfg.WSMaxMessageBytes <= 0 {
		return Config{}, fmt.Errorf("BARKEEP_WS_MAX_MESSAGE_BYTES must be > 0")
	}
	if cfg.WSPingInterval <= 0 {
		return Config{}, fmt.Errorf("BARKEEP_WS_PING_INTERVAL must be > 0")
	}
	if cfg.WSWriteTimeout <= 0 {
		return Config{}, fmt.Errorf("BARKEEP_WS_WRITE_TIMEOUT must be > 0")
	}
	if cfg.WSReadTimeout < 0 {
		return Config{}, fmt.Errorf("BARKEEP_WS_READ_TIMEOUT must be >= 0")
	}
	if cfg.WSOutboundQueueSize <= 0 {
		return Config{}, fmt.Errorf("BARKEEP_WS_OUTBOUND_QUEUE must be > 0")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		return Config{}, fmt.Errorf("BARKEEP_READ_HEADER_TIMEOUT must be > 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return Config{}, fmt.Errorf("BARKEEP_SHUTDOWN_GRACE_PERIOD must be > 0")
	}

	// EmailFrom defaults to the authenticated user.
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = cfg.EmailUser
	}

	return cfg, nil
}

// EmailEnabled reports whether the SMTP group is configured.
func (c Config) EmailEnabled() bool {
	return c.EmailHost != ""
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt64Or(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envIntOr(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func envBoolOr(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
