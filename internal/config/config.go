package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RabbitMQ  RabbitMQConfig  `mapstructure:"rabbitmq"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	DSN         string `mapstructure:"dsn" validate:"required"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxIdle     int    `mapstructure:"max_idle"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
	EnableTLS   bool   `mapstructure:"enable_tls"`
}

type RedisConfig struct {
	Addr          string `mapstructure:"addr" validate:"required"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	PoolSize      int    `mapstructure:"pool_size"`
	EnableTLS     bool   `mapstructure:"enable_tls"`
	ProfileTTLSec int    `mapstructure:"profile_ttl_sec"`
}

type RabbitMQConfig struct {
	URL          string             `mapstructure:"url" validate:"required"`
	EnableTLS    bool               `mapstructure:"enable_tls"`
	ExchangeName ExchangeNameConfig `mapstructure:"exchange_name"`
	RoutingKey   RoutingKeyConfig   `mapstructure:"routing_key"`
	QueueName    QueueNameConfig    `mapstructure:"queue_name"`
}

type ExchangeNameConfig struct {
	Notification string `mapstructure:"notification"`
}

type RoutingKeyConfig struct {
	NotificationPush string `mapstructure:"notification_push"`
}

type QueueNameConfig struct {
	NotificationPush string `mapstructure:"notification_push"`
}

type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OtlpEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// Load reads config.yaml from the working directory (or ./config) and applies
// MEETSPOT_* environment overrides, e.g. MEETSPOT_DATABASE_DSN.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("MEETSPOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "meetspot")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("database.max_open", 20)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.profile_ttl_sec", 300)
	v.SetDefault("rabbitmq.exchange_name.notification", "meetspot.notifications")
	v.SetDefault("rabbitmq.routing_key.notification_push", "notification.push")
	v.SetDefault("rabbitmq.queue_name.notification_push", "meetspot.notification.push")
	v.SetDefault("telemetry.sample_ratio", 1.0)

	if err := v.ReadInConfig(); err != nil {
		// config file is optional when everything comes from the environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
