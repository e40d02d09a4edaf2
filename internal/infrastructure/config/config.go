package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Firestore FirestoreConfig
	IAP       IAPConfig
	Sentry    SentryConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PoolSize int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	Issuer string
}

// FirestoreConfig holds the document-store configuration
type FirestoreConfig struct {
	ProjectID string
}

// IAPConfig holds the vendor credentials. Both are required at startup and
// handed to the validators explicitly; nothing reads them at call time.
type IAPConfig struct {
	AppleSharedSecret string
	GoogleKeyJSON     string
}

// SentryConfig holds Sentry configuration
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
}

var configKeys = []string{
	"server_port",
	"server_read_timeout",
	"server_write_timeout",
	"server_shutdown_timeout",
	"redis_url",
	"redis_pool_size",
	"jwt_secret",
	"jwt_issuer",
	"firestore_project_id",
	"iap_apple_shared_secret",
	"iap_google_key_json",
	"sentry_dsn",
	"sentry_environment",
	"sentry_release",
}

// Load loads configuration from a .env file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	setDefaults()

	// Bind each key explicitly so environment values are visible even
	// when no .env file sets them.
	for _, key := range configKeys {
		if err := viper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// .env file is optional in production (env vars are used)
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetInt("server_port"),
			ReadTimeout:     viper.GetDuration("server_read_timeout"),
			WriteTimeout:    viper.GetDuration("server_write_timeout"),
			ShutdownTimeout: viper.GetDuration("server_shutdown_timeout"),
		},
		Redis: RedisConfig{
			URL:      viper.GetString("redis_url"),
			PoolSize: viper.GetInt("redis_pool_size"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("jwt_secret"),
			Issuer: viper.GetString("jwt_issuer"),
		},
		Firestore: FirestoreConfig{
			ProjectID: viper.GetString("firestore_project_id"),
		},
		IAP: IAPConfig{
			AppleSharedSecret: viper.GetString("iap_apple_shared_secret"),
			GoogleKeyJSON:     viper.GetString("iap_google_key_json"),
		},
		Sentry: SentryConfig{
			DSN:         viper.GetString("sentry_dsn"),
			Environment: viper.GetString("sentry_environment"),
			Release:     viper.GetString("sentry_release"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("server_port", 8080)
	viper.SetDefault("server_read_timeout", 10*time.Second)
	viper.SetDefault("server_write_timeout", 30*time.Second)
	viper.SetDefault("server_shutdown_timeout", 30*time.Second)

	viper.SetDefault("jwt_issuer", "rotinafit")
	viper.SetDefault("redis_pool_size", 10)
	viper.SetDefault("sentry_environment", "production")
}

func validate(cfg *Config) error {
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if cfg.Firestore.ProjectID == "" {
		return fmt.Errorf("FIRESTORE_PROJECT_ID is required")
	}
	if cfg.IAP.AppleSharedSecret == "" {
		return fmt.Errorf("IAP_APPLE_SHARED_SECRET is required")
	}
	if cfg.IAP.GoogleKeyJSON == "" {
		return fmt.Errorf("IAP_GOOGLE_KEY_JSON is required")
	}
	return nil
}
