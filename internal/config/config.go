package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host           string `mapstructure:"host" envconfig:"DB_HOST"`
	Port           int    `mapstructure:"port" envconfig:"DB_PORT"`
	User           string `mapstructure:"user" envconfig:"DB_USER"`
	Password       string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name           string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode        string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
	MigrationsPath string `mapstructure:"migrations_path" envconfig:"DB_MIGRATIONS_PATH"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" envconfig:"SERVER_PORT"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	ExpiryHours int    `mapstructure:"expiry_hours" envconfig:"JWT_EXPIRY_HOURS"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url" envconfig:"REDIS_URL"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type OutboxConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

// OTPConfig controls the one-time-password login flow. DevMode echoes the
// generated code in the issue response; a production deployment must disable
// it and rely on a real dispatch channel.
type OTPConfig struct {
	Expiry          time.Duration `mapstructure:"expiry"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	DevMode         bool          `mapstructure:"dev_mode" envconfig:"OTP_DEV_MODE"`
}

type StorageConfig struct {
	Root string `mapstructure:"root" envconfig:"STORAGE_ROOT"`
}

type AIConfig struct {
	BaseURL string        `mapstructure:"base_url" envconfig:"AI_BASE_URL"`
	APIKey  string        `mapstructure:"api_key" envconfig:"AI_API_KEY"`
	Model   string        `mapstructure:"model" envconfig:"AI_MODEL"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SMTPConfig struct {
	Enabled  bool   `mapstructure:"enabled" envconfig:"SMTP_ENABLED"`
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
	OTP       OTPConfig       `mapstructure:"otp"`
	Storage   StorageConfig   `mapstructure:"storage"`
	AI        AIConfig        `mapstructure:"ai"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// LoadConfig reads config.yml via viper, then applies environment overrides.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.OTP.Expiry <= 0 {
		c.OTP.Expiry = 10 * time.Minute
	}
	if c.OTP.CleanupInterval <= 0 {
		c.OTP.CleanupInterval = time.Hour
	}
	if c.Outbox.BatchSize <= 0 {
		c.Outbox.BatchSize = 50
	}
	if c.Outbox.PollInterval <= 0 {
		c.Outbox.PollInterval = 5 * time.Second
	}
	if c.Outbox.RetryAttempts <= 0 {
		c.Outbox.RetryAttempts = 3
	}
	if c.Outbox.RetryDelay <= 0 {
		c.Outbox.RetryDelay = time.Second
	}
	if c.JWT.ExpiryHours <= 0 {
		c.JWT.ExpiryHours = 24
	}
	if c.Storage.Root == "" {
		c.Storage.Root = "./data/documents"
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.RequestsPerSecond = 50
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 100
	}
}
