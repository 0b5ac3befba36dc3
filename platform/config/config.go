// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RedisConfig provides settings for the Redis-backed draft store.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// GatewayConfig provides settings for the remote booking gateway client.
type GatewayConfig interface {
	GetGatewayBaseURL() string
	GetGatewayTimeout() time.Duration
	GetGatewayChannel() string
}

// WorkflowConfig provides settings for the booking workflow engine.
type WorkflowConfig interface {
	// GetDeleteDraftsOnCompletion reports whether a draft is removed outright
	// when its submission yields a quotation, instead of being kept with
	// status=completed.
	GetDeleteDraftsOnCompletion() bool
	// GetSubmitResetDelay is how long the engine holds the success state
	// before restoring the wizard to its initial values.
	GetSubmitResetDelay() time.Duration
}

// SchedulerConfig provides settings for the asynq scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetDraftSyncInterval() time.Duration
	GetDraftRetention() time.Duration
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketBookingAttachments() string
	IsMinIOEnabled() bool
}

// SMTPConfig provides settings for outbound confirmation email.
type SMTPConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// NotificationConfig provides settings for the notification module.
type NotificationConfig interface {
	GetAppBaseURL() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	DatabaseURL              string
	JWTAccessSecret          string
	CORSAllowAll             bool
	CORSOrigins              []string
	CORSAllowCreds           bool
	AppBaseURL               string
	RedisURL                 string
	RedisTLSInsecure         bool
	AsynqQueueName           string
	GatewayBaseURL           string
	GatewayTimeout           time.Duration
	GatewayChannel           string
	GatewayToken             string
	DeleteDraftsOnCompletion bool
	SubmitResetDelay         time.Duration
	DraftSyncInterval        time.Duration
	DraftRetention           time.Duration
	EmailEnabled             bool
	SMTPHost                 string
	SMTPPort                 int
	SMTPUsername             string
	SMTPPassword             string
	EmailFromName            string
	EmailFromAddress         string
	MinIOEndpoint            string
	MinIOAccessKey           string
	MinIOSecretKey           string
	MinIOUseSSL              bool
	MinIOMaxFileSize         int64
	MinioBucketAttachments   string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }

// GatewayConfig implementation
func (c *Config) GetGatewayBaseURL() string        { return c.GatewayBaseURL }
func (c *Config) GetGatewayTimeout() time.Duration { return c.GatewayTimeout }
func (c *Config) GetGatewayChannel() string        { return c.GatewayChannel }

// WorkflowConfig implementation
func (c *Config) GetDeleteDraftsOnCompletion() bool  { return c.DeleteDraftsOnCompletion }
func (c *Config) GetSubmitResetDelay() time.Duration { return c.SubmitResetDelay }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string           { return c.AsynqQueueName }
func (c *Config) GetDraftSyncInterval() time.Duration { return c.DraftSyncInterval }
func (c *Config) GetDraftRetention() time.Duration    { return c.DraftRetention }

// SMTPConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// NotificationConfig implementation
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string   { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string  { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string  { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool       { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64 { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketBookingAttachments() string {
	return c.MinioBucketAttachments
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// =============================================================================
// Loading
// =============================================================================

// Load reads configuration from the environment, consulting a .env file when
// present. Missing required values are an error; optional values fall back
// to development defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		JWTAccessSecret:          os.Getenv("JWT_ACCESS_SECRET"),
		CORSAllowAll:             getEnv("CORS_ALLOW_ALL", "false") == "true",
		CORSOrigins:              splitAndTrim(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		CORSAllowCreds:           getEnv("CORS_ALLOW_CREDENTIALS", "true") == "true",
		AppBaseURL:               getEnv("APP_BASE_URL", "http://localhost:5173"),
		RedisURL:                 getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisTLSInsecure:         getEnv("REDIS_TLS_INSECURE", "false") == "true",
		AsynqQueueName:           getEnv("ASYNQ_QUEUE", "default"),
		GatewayBaseURL:           os.Getenv("BOOKING_GATEWAY_URL"),
		GatewayTimeout:           mustDuration(getEnv("BOOKING_GATEWAY_TIMEOUT", "15s")),
		GatewayChannel:           getEnv("BOOKING_GATEWAY_CHANNEL", "B2C"),
		GatewayToken:             os.Getenv("BOOKING_GATEWAY_TOKEN"),
		DeleteDraftsOnCompletion: getEnv("DELETE_DRAFTS_ON_COMPLETION", "false") == "true",
		SubmitResetDelay:         mustDuration(getEnv("SUBMIT_RESET_DELAY", "2s")),
		DraftSyncInterval:        mustDuration(getEnv("DRAFT_SYNC_INTERVAL", "15m")),
		DraftRetention:           mustDuration(getEnv("DRAFT_RETENTION", "720h")),
		EmailEnabled:             getEnv("EMAIL_ENABLED", "false") == "true",
		SMTPHost:                 os.Getenv("SMTP_HOST"),
		SMTPPort:                 int(mustInt64(getEnv("SMTP_PORT", "587"))),
		SMTPUsername:             os.Getenv("SMTP_USERNAME"),
		SMTPPassword:             os.Getenv("SMTP_PASSWORD"),
		EmailFromName:            getEnv("EMAIL_FROM_NAME", "Booking Portal"),
		EmailFromAddress:         getEnv("EMAIL_FROM_ADDRESS", "noreply@localhost"),
		MinIOEndpoint:            os.Getenv("MINIO_ENDPOINT"),
		MinIOAccessKey:           os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey:           os.Getenv("MINIO_SECRET_KEY"),
		MinIOUseSSL:              getEnv("MINIO_USE_SSL", "false") == "true",
		MinIOMaxFileSize:         mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "10485760")),
		MinioBucketAttachments:   getEnv("MINIO_BUCKET_BOOKING_ATTACHMENTS", "booking-attachments"),
	}

	if cfg.GatewayBaseURL == "" {
		return nil, fmt.Errorf("BOOKING_GATEWAY_URL is required")
	}
	if cfg.JWTAccessSecret == "" && cfg.Env != "development" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required outside development")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		panic(fmt.Sprintf("invalid duration %q: %v", value, err))
	}
	return d
}

func mustInt64(value string) int64 {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		panic(fmt.Sprintf("invalid integer %q: %v", value, err))
	}
	return n
}
