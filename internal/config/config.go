// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"viralwatch/internal/domain/content"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Collect     CollectConfig
	Sources     SourcesConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration. When Enabled is false the
// application falls back to the JSON-file novelty store and keeps digests
// in memory only.
type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	Enabled        bool
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// CollectConfig holds collection loop configuration
type CollectConfig struct {
	ScanInterval     time.Duration
	TopN             int
	NoveltyThreshold float64
	RetentionDays    int
	EventsTopic      string
	DefaultTimeout   time.Duration
	NoveltyFilePath  string
}

// SourcesConfig holds per-platform adapter configuration
type SourcesConfig struct {
	HackerNews  content.SourceConfig
	Reddit      content.SourceConfig
	GitHub      content.SourceConfig
	ProductHunt content.SourceConfig
	Twitter     content.SourceConfig

	GitHubToken        string
	ProductHuntToken   string
	TwitterBearerToken string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Enabled:      getEnvAsBool("DB_ENABLED", true),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "viralwatch"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			Enabled:        getEnvAsBool("NATS_ENABLED", true),
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Collect: CollectConfig{
			ScanInterval:     getEnvAsDuration("COLLECT_SCAN_INTERVAL", 30*time.Minute),
			TopN:             getEnvAsInt("COLLECT_TOP_N", 20),
			NoveltyThreshold: getEnvAsFloat("COLLECT_NOVELTY_THRESHOLD", 50.0),
			RetentionDays:    getEnvAsInt("COLLECT_RETENTION_DAYS", 30),
			EventsTopic:      getEnv("COLLECT_EVENTS_TOPIC", "viral"),
			DefaultTimeout:   getEnvAsDuration("COLLECT_DEFAULT_TIMEOUT", 30*time.Second),
			NoveltyFilePath:  getEnv("COLLECT_NOVELTY_FILE", "data/viral_history.json"),
		},
		Sources: SourcesConfig{
			HackerNews: content.SourceConfig{
				Enabled:     getEnvAsBool("HN_ENABLED", true),
				Limit:       getEnvAsInt("HN_LIMIT", 100),
				MinScore:    getEnvAsInt("HN_MIN_SCORE", 10),
				MinVelocity: getEnvAsFloat("HN_MIN_VELOCITY", 15.0),
				Timeout:     getEnvAsDuration("HN_TIMEOUT", 60*time.Second),
			},
			Reddit: content.SourceConfig{
				Enabled:     getEnvAsBool("REDDIT_ENABLED", true),
				Limit:       getEnvAsInt("REDDIT_LIMIT", 10),
				MinScore:    getEnvAsInt("REDDIT_MIN_SCORE", 100),
				MinVelocity: getEnvAsFloat("REDDIT_MIN_VELOCITY", 0),
				Timeout:     getEnvAsDuration("REDDIT_TIMEOUT", 45*time.Second),
			},
			GitHub: content.SourceConfig{
				Enabled:     getEnvAsBool("GITHUB_ENABLED", true),
				Limit:       getEnvAsInt("GITHUB_LIMIT", 50),
				MinScore:    getEnvAsInt("GITHUB_MIN_SCORE", 50),
				MinVelocity: getEnvAsFloat("GITHUB_MIN_VELOCITY", 0),
				Timeout:     getEnvAsDuration("GITHUB_TIMEOUT", 30*time.Second),
			},
			ProductHunt: content.SourceConfig{
				Enabled:     getEnvAsBool("PRODUCTHUNT_ENABLED", true),
				Limit:       getEnvAsInt("PRODUCTHUNT_LIMIT", 30),
				MinScore:    getEnvAsInt("PRODUCTHUNT_MIN_SCORE", 50),
				MinVelocity: getEnvAsFloat("PRODUCTHUNT_MIN_VELOCITY", 0),
				Timeout:     getEnvAsDuration("PRODUCTHUNT_TIMEOUT", 30*time.Second),
			},
			Twitter: content.SourceConfig{
				Enabled:     getEnvAsBool("TWITTER_ENABLED", true),
				Limit:       getEnvAsInt("TWITTER_LIMIT", 50),
				MinScore:    getEnvAsInt("TWITTER_MIN_SCORE", 1000),
				MinVelocity: getEnvAsFloat("TWITTER_MIN_VELOCITY", 0),
				Timeout:     getEnvAsDuration("TWITTER_TIMEOUT", 30*time.Second),
			},
			GitHubToken:        getEnv("GITHUB_TOKEN", ""),
			ProductHuntToken:   getEnv("PRODUCTHUNT_API_TOKEN", ""),
			TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),
		},
	}

	return config, validate(config)
}

// SourceConfigs returns the per-platform configuration keyed by source tag
func (c Config) SourceConfigs() map[content.Source]content.SourceConfig {
	return map[content.Source]content.SourceConfig{
		content.SourceHackerNews:  c.Sources.HackerNews,
		content.SourceReddit:      c.Sources.Reddit,
		content.SourceGitHub:      c.Sources.GitHub,
		content.SourceProductHunt: c.Sources.ProductHunt,
		content.SourceTwitter:     c.Sources.Twitter,
	}
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Collect.ScanInterval < time.Minute {
		return fmt.Errorf("collect scan interval must be at least one minute")
	}
	if config.Collect.RetentionDays <= 0 {
		return fmt.Errorf("collect retention days must be positive")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
