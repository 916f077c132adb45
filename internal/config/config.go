package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Oda     OdaConfig     `mapstructure:"oda"`
	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
}

// OdaConfig holds everything needed to talk to the origin
type OdaConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
	UserAgent            string `mapstructure:"user_agent"`
	AcceptLanguage       string `mapstructure:"accept_language"`

	// Credentials for the login command
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// SessionConfig selects where the cookie record is persisted
type SessionConfig struct {
	Backend string `mapstructure:"backend"`  // "file" or "redis"
	DataDir string `mapstructure:"data_dir"` // file backend only; empty means ~/.mcp-oda
}

// RedisConfig holds Redis connection details for the redis session backend
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	Key      string `mapstructure:"key"`
}

// LogConfig controls logrus
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from an optional config.yaml with environment
// variable overrides (ODA_BASE_URL, ODA_EMAIL, ...)
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// The server runs fine on defaults plus env; only a present-but-broken
		// file is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("oda.base_url", "https://oda.com/no")
	viper.SetDefault("oda.timeout", 30)
	viper.SetDefault("oda.max_requests_per_second", 4)
	viper.SetDefault("oda.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	viper.SetDefault("oda.accept_language", "nb-NO,nb;q=0.9,en;q=0.8")
	viper.SetDefault("oda.email", "")
	viper.SetDefault("oda.password", "")

	viper.SetDefault("session.backend", "file")
	viper.SetDefault("session.data_dir", "")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.key", "oda:session:cookies")

	viper.SetDefault("log.level", "info")
}
