package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var GlobalConfig *Config

// Config global configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	MySQL     MySQLConfig     `yaml:"mysql"`
	Redis     RedisConfig     `yaml:"redis"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Queue     QueueConfig     `yaml:"queue"`
	Logger    LoggerConfig    `yaml:"logger"`

	Notification NotificationConfig `yaml:"notification"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Port          int    `yaml:"port"`
	Mode          string `yaml:"mode"`            // debug, release
	APIKey        string `yaml:"api_key"`         // API key for dashboard clients (optional, if empty, auth is disabled)
	DefaultUserID int64  `yaml:"default_user_id"` // fallback identity when the gateway sends no X-User-ID header
}

// MySQLConfig MySQL configuration
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RedisConfig Redis configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// TelemetryConfig training telemetry engine configuration
type TelemetryConfig struct {
	EpochIntervalMs     int `yaml:"epoch_interval_ms"`     // wall-clock interval between simulated epochs
	DefaultEpochs       int `yaml:"default_epochs"`        // epochs when the start command omits a count
	DefaultTotalBatches int `yaml:"default_total_batches"` // batches per epoch when the start command omits a count
	NotifyQueueSize     int `yaml:"notify_queue_size"`     // bounded notification dispatch queue capacity
}

// QueueConfig scheduled-start queue configuration
type QueueConfig struct {
	Concurrency int `yaml:"concurrency"` // queue processing concurrency
	MaxRetry    int `yaml:"max_retry"`   // maximum retry count for scheduled starts
}

// NotificationConfig outbound notification configuration
type NotificationConfig struct {
	FeishuWebhookURL string `yaml:"feishu_webhook_url"` // Feishu webhook for failure alerts (optional)
}

// LoggerConfig logger configuration
type LoggerConfig struct {
	Level  string           `yaml:"level"`  // debug, info, warn, error
	Output string           `yaml:"output"` // console, file, both
	File   LoggerFileConfig `yaml:"file"`
}

// LoggerFileConfig logger file configuration
type LoggerFileConfig struct {
	Path string `yaml:"path"`
}

// EpochInterval returns the progression interval, defaulting to one second.
func (t TelemetryConfig) EpochInterval() time.Duration {
	if t.EpochIntervalMs <= 0 {
		return time.Second
	}
	return time.Duration(t.EpochIntervalMs) * time.Millisecond
}

// Init initializes configuration
func Init() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}

	ApplyDefaults(&cfg)
	GlobalConfig = &cfg
	return nil
}

// ApplyDefaults fills in defaults for omitted or invalid values so a sparse
// config file still yields an operational server.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.DefaultUserID <= 0 {
		cfg.Server.DefaultUserID = 1
	}
	if cfg.Telemetry.EpochIntervalMs <= 0 {
		cfg.Telemetry.EpochIntervalMs = 1000
	}
	if cfg.Telemetry.DefaultEpochs <= 0 {
		cfg.Telemetry.DefaultEpochs = 10
	}
	if cfg.Telemetry.DefaultTotalBatches <= 0 {
		cfg.Telemetry.DefaultTotalBatches = 100
	}
	if cfg.Telemetry.NotifyQueueSize <= 0 {
		cfg.Telemetry.NotifyQueueSize = 256
	}
	if cfg.Queue.Concurrency <= 0 {
		cfg.Queue.Concurrency = 5
	}
	if cfg.Queue.MaxRetry < 0 {
		cfg.Queue.MaxRetry = 0
	}
}
