package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingBaseURL is returned when the backend API base URL is not configured.
var ErrMissingBaseURL = errors.New("API_BASE_URL environment variable not set")

// Config captures everything the checkout service reads from the environment.
type Config struct {
	Port string

	APIBaseURL     string
	APITimeout     time.Duration
	APIPingTimeout time.Duration

	CheckoutPrecheck bool
	CallbackURL      string
	AccountSetupPath string

	SessionSecret       string
	SessionTTL          time.Duration
	SessionCookieSecure bool

	RedisURL string
	MongoURI string
	MongoDB  string

	AllowedOrigins []string
	LogLevel       slog.Level
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func parseLevel(v string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// FromEnv builds the service configuration. The backend base URL is the only
// mandatory value; everything else has a development default.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:                getenv("PORT", "8080"),
		APIBaseURL:          strings.TrimRight(getenv("API_BASE_URL", ""), "/"),
		APITimeout:          getDuration("API_TIMEOUT", 30*time.Second),
		APIPingTimeout:      getDuration("API_PING_TIMEOUT", 5*time.Second),
		CheckoutPrecheck:    getBool("CHECKOUT_PRECHECK", true),
		CallbackURL:         getenv("CHECKOUT_CALLBACK_URL", ""),
		AccountSetupPath:    getenv("ACCOUNT_SETUP_PATH", "/account/setup"),
		SessionSecret:       getenv("SESSION_SECRET", "dev-session-secret-change-in-production"),
		SessionTTL:          getDuration("SESSION_TTL", 2*time.Hour),
		SessionCookieSecure: getBool("SESSION_COOKIE_SECURE", false),
		RedisURL:            getenv("REDIS_URL", ""),
		MongoURI:            getenv("MONGOURI", ""),
		MongoDB:             getenv("MONGO_DB", "rxmate"),
		AllowedOrigins:      getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		LogLevel:            parseLevel(getenv("LOG_LEVEL", "info")),
	}
	if cfg.APIBaseURL == "" {
		return cfg, ErrMissingBaseURL
	}
	return cfg, nil
}
