// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Discord    DiscordConfig    `mapstructure:"discord"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DiscordConfig holds settings for the review-channel notification bot.
type DiscordConfig struct {
	Token           string `mapstructure:"token"`
	ReviewChannelID string `mapstructure:"review_channel_id"`
	PostTimeout     int    `mapstructure:"post_timeout"` // milliseconds
	TrackerTTLHours int    `mapstructure:"tracker_ttl_hours"`
}

// QueueConfig holds settings for the intake-to-dispatcher hand-off queue.
type QueueConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// AuthConfig holds settings for caller identity verification. Token exchange
// itself is delegated to the external identity provider.
type AuthConfig struct {
	Mode      string `mapstructure:"mode"` // "jwt" or "github"
	JWTSecret string `mapstructure:"jwt_secret"`

	GitHub struct {
		APIBaseURL string `mapstructure:"api_base_url"`
		Timeout    int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"github"`
}

// CatalogConfig holds settings for the catalog listing endpoints.
type CatalogConfig struct {
	DefaultPerPage int `mapstructure:"default_per_page"`
	MaxPerPage     int `mapstructure:"max_per_page"`
}

// ModerationConfig holds settings for the resolution handler.
type ModerationConfig struct {
	ResolveTimeout int `mapstructure:"resolve_timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
