package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	StoreBackend string `mapstructure:"STORE_BACKEND"`
	DataDir      string `mapstructure:"DATA_DIR"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`

	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int    `mapstructure:"REDIS_DB"`
	RedisKeyPrefix string `mapstructure:"REDIS_KEY_PREFIX"`

	PersistPolicy   string        `mapstructure:"PERSIST_POLICY"`
	PersistInterval time.Duration `mapstructure:"PERSIST_INTERVAL"`

	// base64; either may also name a file holding the value
	ReceiptHashKeyB64  string `mapstructure:"RECEIPT_HASH_KEY"`
	ReceiptBlockKeyB64 string `mapstructure:"RECEIPT_BLOCK_KEY"`
	ReceiptHashKey     []byte `mapstructure:"-"`
	ReceiptBlockKey    []byte `mapstructure:"-"`

	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"`
	MetricsTextfile   string `mapstructure:"METRICS_TEXTFILE"`
}

func (c Config) IsProduction() bool { return c.Env == "production" }

// FromEnv reads ./.env, ./hotelres.yaml and the process environment, in
// increasing order of precedence.
func FromEnv() (Config, error) {
	return Load("")
}

// Load is FromEnv with an explicit config file. An explicit file must exist.
func Load(file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf(".env: %w", err)
	}

	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("hotelres")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", BackendFile)
	v.SetDefault("DATA_DIR", ".")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "hotelres:")
	v.SetDefault("PERSIST_POLICY", "immediate")
	v.SetDefault("PERSIST_INTERVAL", "5s")
	v.SetDefault("RECEIPT_HASH_KEY", "")
	v.SetDefault("RECEIPT_BLOCK_KEY", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("METRICS_TEXTFILE", "")

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	switch c.StoreBackend {
	case BackendFile:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q (want file, postgres or redis)", c.StoreBackend)
	}
	switch strings.ToLower(strings.TrimSpace(c.PersistPolicy)) {
	case "", "immediate", "deferred", "manual":
	default:
		return fmt.Errorf("invalid PERSIST_POLICY %q", c.PersistPolicy)
	}
	if c.PersistInterval <= 0 {
		return fmt.Errorf("invalid PERSIST_INTERVAL %s", c.PersistInterval)
	}

	var err error
	if c.ReceiptHashKeyB64 != "" {
		if c.ReceiptHashKey, err = decodeB64(c.ReceiptHashKeyB64); err != nil {
			return fmt.Errorf("RECEIPT_HASH_KEY: %w", err)
		}
		if len(c.ReceiptHashKey) < 32 {
			return fmt.Errorf("RECEIPT_HASH_KEY must decode to at least 32 bytes (got %d)", len(c.ReceiptHashKey))
		}
	}
	if c.ReceiptBlockKeyB64 != "" {
		if c.ReceiptBlockKey, err = decodeB64(c.ReceiptBlockKeyB64); err != nil {
			return fmt.Errorf("RECEIPT_BLOCK_KEY: %w", err)
		}
		switch len(c.ReceiptBlockKey) {
		case 16, 24, 32:
		default:
			return fmt.Errorf("RECEIPT_BLOCK_KEY must decode to 16, 24 or 32 bytes (got %d)", len(c.ReceiptBlockKey))
		}
	}
	return nil
}

// decodeB64 accepts the value itself or a path to a file holding it, for
// secret mounts.
func decodeB64(s string) ([]byte, error) {
	if b, err := os.ReadFile(s); err == nil {
		s = string(b)
	}
	s = strings.TrimSpace(s)
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
