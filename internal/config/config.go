// Package config loads service settings from .env, config.yaml and the
// environment through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Argon2   Argon2Config   `mapstructure:"argon2"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Log      LogConfig      `mapstructure:"log"`
	Shop     ShopConfig     `mapstructure:"shop"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Static   StaticConfig   `mapstructure:"static"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN renders the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type JWTConfig struct {
	SecretKey   string `mapstructure:"secret_key"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

type Argon2Config struct {
	Time       uint32 `mapstructure:"time"`
	Memory     uint32 `mapstructure:"memory"`
	Threads    uint8  `mapstructure:"threads"`
	KeyLength  uint32 `mapstructure:"key_length"`
	SaltLength int    `mapstructure:"salt_length"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ShopConfig is the storefront identity used by memos and the chatbot.
type ShopConfig struct {
	Name     string `mapstructure:"name"`
	Owner    string `mapstructure:"owner"`
	Contact  string `mapstructure:"contact"`
	Address  string `mapstructure:"address"`
	Timezone string `mapstructure:"timezone"`
}

type CacheConfig struct {
	DashboardTTL time.Duration `mapstructure:"dashboard_ttl"`
}

type StaticConfig struct {
	Dir string `mapstructure:"dir"`
}

// envBindings maps config keys to the plain upper-case variables used in .env.
var envBindings = map[string]string{
	"server.port":        "PORT",
	"database.host":      "DATABASE_HOST",
	"database.port":      "DATABASE_PORT",
	"database.user":      "DATABASE_USER",
	"database.password":  "DATABASE_PASSWORD",
	"database.name":      "DATABASE_NAME",
	"database.ssl_mode":  "DATABASE_SSL_MODE",
	"redis.host":         "REDIS_HOST",
	"redis.port":         "REDIS_PORT",
	"redis.password":     "REDIS_PASSWORD",
	"redis.db":           "REDIS_DB",
	"jwt.secret_key":     "JWT_SECRET_KEY",
	"jwt.expiry_hours":   "JWT_EXPIRY_HOURS",
	"argon2.time":        "ARGON2_TIME",
	"argon2.memory":      "ARGON2_MEMORY",
	"argon2.threads":     "ARGON2_THREADS",
	"argon2.key_length":  "ARGON2_KEY_LENGTH",
	"argon2.salt_length": "ARGON2_SALT_LENGTH",
	"gemini.api_key":     "GEMINI_API_KEY",
	"gemini.model":       "GEMINI_MODEL",
	"log.level":          "LOG_LEVEL",
	"log.format":         "LOG_FORMAT",
}

// Load reads configuration. Missing files are fine; defaults and the
// environment cover every key.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.allowed_origins", []string{"https://*", "http://*"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "sinthiya_telecom")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret_key", "")
	v.SetDefault("jwt.expiry_hours", 24)

	v.SetDefault("argon2.time", 1)
	v.SetDefault("argon2.memory", 64*1024)
	v.SetDefault("argon2.threads", 4)
	v.SetDefault("argon2.key_length", 32)
	v.SetDefault("argon2.salt_length", 16)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("shop.name", "Sinthiya Telecom")
	v.SetDefault("shop.owner", "Md. Abdul Momin")
	v.SetDefault("shop.contact", "01307085310")
	v.SetDefault("shop.address", "Hat Pangashi, Nahid New Market, Raigonj, Sirajganj")
	v.SetDefault("shop.timezone", "Asia/Dhaka")

	v.SetDefault("cache.dashboard_ttl", 2*time.Minute)
	v.SetDefault("static.dir", "./static")
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("jwt.secret_key (JWT_SECRET_KEY) is required")
	}
	if c.JWT.ExpiryHours <= 0 {
		return errors.New("jwt.expiry_hours must be positive")
	}
	if c.Argon2.SaltLength < 8 || c.Argon2.KeyLength < 16 {
		return errors.New("argon2 salt_length must be >= 8 and key_length >= 16")
	}
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true, "fatal": true, "panic": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

// Location resolves the shop timezone, falling back to UTC.
func (c ShopConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
