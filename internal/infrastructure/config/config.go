package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Remote   RemoteConfig
	Sync     SyncConfig
	Queue    QueueConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	TrustedProxies []string
}

// RemoteConfig holds the remote accounting platform settings
type RemoteConfig struct {
	BaseURL         string
	TokenURL        string
	ConnectionsURL  string
	ClientID        string
	ClientSecret    string
	WebhookSecret   string
	SignatureHeader string
	TimeoutSeconds  int
}

// SyncConfig holds reconciliation engine settings
type SyncConfig struct {
	EchoSuppressionTTL time.Duration // how long an outbound write suppresses its own webhook
	WebhookWorkers     int           // bounded pool for inbound event processing
	CatalogWorkers     int           // bounded pool for bulk catalog sync
}

// QueueConfig holds the outbound job queue consumer settings
type QueueConfig struct {
	Enabled     bool
	URL         string
	Queue       string
	ConsumerTag string
	Prefetch    int
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with LEDGERLINK_ prefix (e.g., LEDGERLINK_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("LEDGERLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		Remote: RemoteConfig{
			BaseURL:         v.GetString("remote.base_url"),
			TokenURL:        v.GetString("remote.token_url"),
			ConnectionsURL:  v.GetString("remote.connections_url"),
			ClientID:        v.GetString("remote.client_id"),
			ClientSecret:    v.GetString("remote.client_secret"),
			WebhookSecret:   v.GetString("remote.webhook_secret"),
			SignatureHeader: v.GetString("remote.signature_header"),
			TimeoutSeconds:  v.GetInt("remote.timeout_seconds"),
		},
		Sync: SyncConfig{
			EchoSuppressionTTL: v.GetDuration("sync.echo_suppression_ttl"),
			WebhookWorkers:     v.GetInt("sync.webhook_workers"),
			CatalogWorkers:     v.GetInt("sync.catalog_workers"),
		},
		Queue: QueueConfig{
			Enabled:     v.GetBool("queue.enabled"),
			URL:         v.GetString("queue.url"),
			Queue:       v.GetString("queue.queue"),
			ConsumerTag: v.GetString("queue.consumer_tag"),
			Prefetch:    v.GetInt("queue.prefetch"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "ledgerlink"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "ledgerlink"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.Remote.SignatureHeader == "" {
		cfg.Remote.SignatureHeader = "X-Ledger-Signature"
	}
	if cfg.Remote.TimeoutSeconds == 0 {
		cfg.Remote.TimeoutSeconds = 30
	}
	if cfg.Sync.EchoSuppressionTTL == 0 {
		cfg.Sync.EchoSuppressionTTL = 5 * time.Minute
	}
	if cfg.Sync.WebhookWorkers == 0 {
		cfg.Sync.WebhookWorkers = 4
	}
	if cfg.Sync.CatalogWorkers == 0 {
		cfg.Sync.CatalogWorkers = 5
	}
	if cfg.Queue.Queue == "" {
		cfg.Queue.Queue = "ledgerlink.sync"
	}
	if cfg.Queue.ConsumerTag == "" {
		cfg.Queue.ConsumerTag = "ledgerlink-sync-worker"
	}
	if cfg.Queue.Prefetch == 0 {
		cfg.Queue.Prefetch = 1
	}
}

// validate checks configuration for fatal misconfiguration
func (c *Config) validate() error {
	if c.App.Env == "production" {
		if c.Remote.WebhookSecret == "" {
			return fmt.Errorf("remote.webhook_secret must be set in production")
		}
		if c.Remote.ClientID == "" || c.Remote.ClientSecret == "" {
			return fmt.Errorf("remote.client_id and remote.client_secret must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password must be set in production")
		}
	}
	if c.Queue.Enabled && c.Queue.URL == "" {
		return fmt.Errorf("queue.url must be set when the queue consumer is enabled")
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Addr returns the host:port pair for the Redis server
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction returns true when running in the production environment
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
