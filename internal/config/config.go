package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string
	JWTSecret   string
	LogLevel    string
	Env         string // dev|production
	SentryDSN   string
	CORSOrigins []string

	GoogleAPIKey  string // empty -> demo/fallback analysis
	GeminiBaseURL string

	S3 S3Config

	UploadDir        string
	UploadPublicBase string

	DedupeInterval time.Duration // 0 disables the periodic pass

	TokenTTL time.Duration

	// Bootstrap admin, created on startup when both are set.
	AdminEmail    string
	AdminPassword string
}

type S3Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

// Enabled reports whether enough is set to talk to a bucket.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("UPLOAD_DIR", "./data/uploads")
	v.SetDefault("UPLOAD_PUBLIC_BASE_URL", "/uploads")
	v.SetDefault("DEDUPE_INTERVAL", "0s")
	v.SetDefault("TOKEN_TTL", "24h")

	cfg := &Config{
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Env:         v.GetString("APP_ENV"),
		SentryDSN:   v.GetString("SENTRY_DSN"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		GoogleAPIKey:  v.GetString("GOOGLE_API_KEY"),
		GeminiBaseURL: v.GetString("GEMINI_BASE_URL"),

		S3: S3Config{
			Endpoint:      v.GetString("S3_ENDPOINT"),
			AccessKey:     v.GetString("S3_ACCESS_KEY"),
			SecretKey:     v.GetString("S3_SECRET_KEY"),
			Bucket:        v.GetString("S3_BUCKET"),
			PublicBaseURL: v.GetString("S3_PUBLIC_BASE_URL"),
		},

		UploadDir:        v.GetString("UPLOAD_DIR"),
		UploadPublicBase: v.GetString("UPLOAD_PUBLIC_BASE_URL"),

		DedupeInterval: v.GetDuration("DEDUPE_INTERVAL"),

		TokenTTL: v.GetDuration("TOKEN_TTL"),

		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if len(c.CORSOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ORIGINS must list at least one origin"))
	}
	if c.DedupeInterval < 0 {
		errs = append(errs, fmt.Errorf("DEDUPE_INTERVAL must not be negative, got %s", c.DedupeInterval))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
