// Package config loads server configuration from defaults, an optional YAML
// file, a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmynk/expensegenie/internal/models"
)

// Config holds all configuration for the server.
type Config struct {
	Server      ServerConfig
	DB          DBConfig
	Log         LogConfig
	JWT         JWTConfig
	Google      GoogleConfig
	AdminEmails []string
	Redis       RedisConfig
	Cache       CacheConfig
	Currency    CurrencyConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int
	StaticPath      string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	Path string
}

type LogConfig struct {
	Level string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// GoogleConfig holds the OAuth client registration. Google sign-in is
// disabled when ClientID is empty.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// RedisConfig enables the shared balances cache when Addr is set.
type RedisConfig struct {
	Addr string
}

type CacheConfig struct {
	TTL time.Duration
}

type CurrencyConfig struct {
	Default string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.static_path", "./static")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("db.path", "./data/expensegenie.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("google.redirect_url", "http://localhost:8080/auth/google/callback")
	v.SetDefault("admin.emails", []string{})
	v.SetDefault("redis.addr", "")
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("currency.default", "USD")
}

// Load reads configuration. configFile is optional; when empty only
// defaults, .env and the environment are used. Environment variables use
// the upper-cased key with dots replaced by underscores (DB_PATH, JWT_SECRET).
func Load(configFile string) (*Config, error) {
	// .env is optional (non-fatal if missing)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("server.port"),
			StaticPath:      v.GetString("server.static_path"),
			AllowedOrigins:  splitList(v.GetStringSlice("server.allowed_origins")),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		DB:  DBConfig{Path: v.GetString("db.path")},
		Log: LogConfig{Level: strings.ToLower(v.GetString("log.level"))},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			TTL:    v.GetDuration("jwt.ttl"),
		},
		Google: GoogleConfig{
			ClientID:     v.GetString("google.client_id"),
			ClientSecret: v.GetString("google.client_secret"),
			RedirectURL:  v.GetString("google.redirect_url"),
		},
		AdminEmails: splitList(v.GetStringSlice("admin.emails")),
		Redis:       RedisConfig{Addr: v.GetString("redis.addr")},
		Cache:       CacheConfig{TTL: v.GetDuration("cache.ttl")},
		Currency:    CurrencyConfig{Default: strings.ToUpper(v.GetString("currency.default"))},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret (JWT_SECRET) is required"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("jwt.ttl must be positive"))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be positive"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if !models.ValidCurrencyCode(c.Currency.Default) {
		errs = append(errs, fmt.Errorf("currency.default %q is not a currency code", c.Currency.Default))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	if c.Google.ClientID != "" && c.Google.ClientSecret == "" {
		errs = append(errs, errors.New("google.client_secret is required when google.client_id is set"))
	}
	return errors.Join(errs...)
}

// splitList accepts both YAML lists and comma- or space-separated env values.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
