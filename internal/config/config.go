// Package config reads runtime settings from the environment and optional
// .env files.
package config

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/hkdf"
)

// Config holds all runtime settings.
type Config struct {
	Addr      string
	DBDriver  string
	DBPath    string
	DBURL     string
	Timezone  string
	LogLevel  string
	LogFormat string

	SessionTTL    time.Duration
	SweepInterval time.Duration
	SlowQuery     time.Duration
	SlowRequest   time.Duration

	CSRFSecret         string
	SecureCookies      bool
	CORSOrigins        []string
	LoginRatePerMinute int

	ResendAPIKey string
	EmailFrom    string
	EmailReplyTo string

	AdminID   string
	AdminName string
	AdminPin  string
}

var defaults = map[string]any{
	"TRAINERWEB_ADDR":            ":8080",
	"DB_DRIVER":                  "sqlite",
	"DB_PATH":                    "trainerweb.db",
	"DATABASE_URL":               "",
	"APP_TIMEZONE":               "Europe/Berlin",
	"LOG_LEVEL":                  "info",
	"LOG_FORMAT":                 "text",
	"SESSION_TTL_SECONDS":        28800,
	"SESSION_SWEEP_INTERVAL":     "10m",
	"TRAINERWEB_SLOW_QUERY_MS":   50,
	"TRAINERWEB_SLOW_REQUEST_MS": 200,
	"TRAINERWEB_CSRF_SECRET":     "",
	"COOKIE_SECURE":              false,
	"CORS_ORIGINS":               "",
	"LOGIN_RATE_PER_MINUTE":      10,
	"RESEND_API_KEY":             "",
	"EMAIL_FROM":                 "Trainer-Einteilung <noreply@example.org>",
	"EMAIL_REPLY_TO":             "",
	"ADMIN_BOOTSTRAP_ID":         "",
	"ADMIN_BOOTSTRAP_NAME":       "Admin",
	"ADMIN_BOOTSTRAP_PIN":        "",
}

// LoadDotenv merges the given files into the process environment. Later
// files override earlier ones; variables already set in the process win.
// Missing files are skipped.
func LoadDotenv(files ...string) error {
	merged := map[string]string{}
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range vals {
			merged[k] = v
		}
	}
	for k, v := range merged {
		if _, exists := os.LookupEnv(k); exists {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}

// Load reads .env and .env.local, then the environment.
// PRE: none
// POST: Returns a Config with defaults applied, or an error for invalid values
func Load() (Config, error) {
	if err := LoadDotenv(".env", ".env.local"); err != nil {
		return Config{}, err
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	cfg := Config{
		Addr:               v.GetString("TRAINERWEB_ADDR"),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		DBPath:             v.GetString("DB_PATH"),
		DBURL:              v.GetString("DATABASE_URL"),
		Timezone:           v.GetString("APP_TIMEZONE"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:          strings.ToLower(v.GetString("LOG_FORMAT")),
		SessionTTL:         time.Duration(v.GetInt("SESSION_TTL_SECONDS")) * time.Second,
		SweepInterval:      v.GetDuration("SESSION_SWEEP_INTERVAL"),
		SlowQuery:          time.Duration(v.GetInt("TRAINERWEB_SLOW_QUERY_MS")) * time.Millisecond,
		SlowRequest:        time.Duration(v.GetInt("TRAINERWEB_SLOW_REQUEST_MS")) * time.Millisecond,
		CSRFSecret:         v.GetString("TRAINERWEB_CSRF_SECRET"),
		SecureCookies:      v.GetBool("COOKIE_SECURE"),
		CORSOrigins:        splitList(v.GetString("CORS_ORIGINS")),
		LoginRatePerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE"),
		ResendAPIKey:       v.GetString("RESEND_API_KEY"),
		EmailFrom:          v.GetString("EMAIL_FROM"),
		EmailReplyTo:       v.GetString("EMAIL_REPLY_TO"),
		AdminID:            strings.TrimSpace(v.GetString("ADMIN_BOOTSTRAP_ID")),
		AdminName:          strings.TrimSpace(v.GetString("ADMIN_BOOTSTRAP_NAME")),
		AdminPin:           strings.TrimSpace(v.GetString("ADMIN_BOOTSTRAP_PIN")),
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for sqlite")
		}
	case "postgres":
		if c.DBURL == "" {
			return errors.New("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL_SECONDS must be positive")
	}
	if c.SweepInterval <= 0 {
		return errors.New("SESSION_SWEEP_INTERVAL must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DBURL
	}
	return c.DBPath
}

// EmailEnabled reports whether a mail provider key is configured.
func (c Config) EmailEnabled() bool {
	return c.ResendAPIKey != ""
}

// CSRFKey derives the 32-byte form token key from CSRFSecret with HKDF-SHA256.
// A blank secret yields a random key; open forms then fail after a restart.
func (c Config) CSRFKey() ([]byte, error) {
	key := make([]byte, 32)
	if c.CSRFSecret == "" {
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("random csrf key: %w", err)
		}
		return key, nil
	}
	r := hkdf.New(sha256.New, []byte(c.CSRFSecret), nil, []byte("trainerweb csrf v1"))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive csrf key: %w", err)
	}
	return key, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
