package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Auth       AuthConfig
	Chat       ChatConfig
	Documents  DocumentsConfig
	Sessions   SessionsConfig
	Search     SearchConfig
	Logging    LoggingConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration. When neither
// DSN nor Host is set the service keeps its state in memory.
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred over the parts
	Host               string
	Port               int `validate:"gte=0,lte=65535"`
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int `validate:"gte=1"`
	MaxIdleConnections int `validate:"gte=0"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int    `validate:"gt=0,lte=65535"`
	Host           string `validate:"required"`
	GinMode        string `validate:"oneof=debug release test"`
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// AuthConfig holds identity provider token settings
type AuthConfig struct {
	JWTSecret   string   `validate:"required"`
	AllowedAlgs []string `validate:"min=1,dive,oneof=HS256 HS384 HS512"`
	Issuer      string
}

// ChatConfig holds the timings of the scripted conversation and the
// assistant. Values are in milliseconds.
type ChatConfig struct {
	FlowTypingDelayMs     int `validate:"gte=0"`
	FlowProcessingDelayMs int `validate:"gte=0"`
	FlowRevealDelayMs     int `validate:"gte=0"`
	SuccessMessageMs      int `validate:"gte=0"`
	TypingMinMs           int `validate:"gte=0"`
	TypingJitterMs        int `validate:"gte=0"`
	FollowUpMinMs         int `validate:"gte=0"`
	FollowUpJitterMs      int `validate:"gte=0"`
	FollowUpPercent       int `validate:"gte=0,lte=100"`
	IdleNudgeMs           int `validate:"gte=0"`
	IdleNudgeTypingMs     int `validate:"gte=0"`
	OnboardingAnalyzeMs   int `validate:"gte=0"`
}

// DocumentsConfig holds simulated upload timings
type DocumentsConfig struct {
	UploadDelayMs int `validate:"gte=0"`
	ScanDelayMs   int `validate:"gte=0"`
}

// SessionsConfig bounds the number and lifetime of client sessions
type SessionsConfig struct {
	MaxSessions    int `validate:"gte=1"`
	IdleTTLSeconds int `validate:"gte=1"`
	QueueSize      int `validate:"gte=1"`
}

// SearchConfig holds search-related configuration
type SearchConfig struct {
	HistoryLimit int `validate:"gte=1"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console text"`
	File   string // optional JSON log file written alongside stderr
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", ""),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "realestate"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", ""),
			AllowedAlgs: getEnvAsList("JWT_ALLOWED_ALGS", []string{"HS256", "HS512"}),
			Issuer:      getEnv("JWT_ISSUER", ""),
		},
		Chat: ChatConfig{
			FlowTypingDelayMs:     getEnvAsInt("CHAT_FLOW_TYPING_MS", 600),
			FlowProcessingDelayMs: getEnvAsInt("CHAT_FLOW_PROCESSING_MS", 1000),
			FlowRevealDelayMs:     getEnvAsInt("CHAT_FLOW_REVEAL_MS", 2000),
			SuccessMessageMs:      getEnvAsInt("CHAT_SUCCESS_MESSAGE_MS", 1500),
			TypingMinMs:           getEnvAsInt("CHAT_TYPING_MIN_MS", 1000),
			TypingJitterMs:        getEnvAsInt("CHAT_TYPING_JITTER_MS", 2000),
			FollowUpMinMs:         getEnvAsInt("CHAT_FOLLOWUP_MIN_MS", 1500),
			FollowUpJitterMs:      getEnvAsInt("CHAT_FOLLOWUP_JITTER_MS", 1000),
			FollowUpPercent:       getEnvAsInt("CHAT_FOLLOWUP_PERCENT", 70),
			IdleNudgeMs:           getEnvAsInt("CHAT_IDLE_NUDGE_MS", 5000),
			IdleNudgeTypingMs:     getEnvAsInt("CHAT_IDLE_NUDGE_TYPING_MS", 2000),
			OnboardingAnalyzeMs:   getEnvAsInt("ONBOARDING_ANALYZE_MS", 3000),
		},
		Documents: DocumentsConfig{
			UploadDelayMs: getEnvAsInt("DOCUMENTS_UPLOAD_DELAY_MS", 1500),
			ScanDelayMs:   getEnvAsInt("DOCUMENTS_SCAN_DELAY_MS", 2000),
		},
		Sessions: SessionsConfig{
			MaxSessions:    getEnvAsInt("SESSIONS_MAX", 1000),
			IdleTTLSeconds: getEnvAsInt("SESSIONS_IDLE_TTL_SECONDS", 1800),
			QueueSize:      getEnvAsInt("SESSIONS_QUEUE_SIZE", 64),
		},
		Search: SearchConfig{
			HistoryLimit: getEnvAsInt("SEARCH_HISTORY_LIMIT", 20),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
			File:   getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return oops.In("config").Wrapf(err, "invalid configuration")
	}
	return nil
}

// UsePostgres reports whether a database is configured
func (c *Config) UsePostgres() bool {
	return c.PostgreSQL.DSN != "" || c.PostgreSQL.Host != ""
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// IdleTTL returns the session idle timeout
func (c SessionsConfig) IdleTTL() time.Duration {
	return time.Duration(c.IdleTTLSeconds) * time.Second
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("Invalid integer value, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

// Ms converts a millisecond setting to a duration
func Ms(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
