package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	WhatsApp  WhatsAppConfig  `mapstructure:"whatsapp"`
	Phone     PhoneConfig     `mapstructure:"phone"`
	Cooldown  CooldownConfig  `mapstructure:"cooldown"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Supabase  SupabaseConfig  `mapstructure:"supabase"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Dedup     DedupConfig     `mapstructure:"dedup"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// WebhookConfig holds inbound webhook verification settings.
type WebhookConfig struct {
	// Secret is the shared HMAC signing secret of the event source.
	Secret string `mapstructure:"secret"`

	// SignatureHeader carries the base64 HMAC-SHA256 of the raw body.
	SignatureHeader string `mapstructure:"signature_header"`
}

// WhatsAppConfig holds WhatsApp Cloud API settings.
type WhatsAppConfig struct {
	AccessToken   string         `mapstructure:"access_token"`
	PhoneNumberID string         `mapstructure:"phone_number_id"`
	BaseURL       string         `mapstructure:"base_url"`
	Checkout      TemplateConfig `mapstructure:"checkout"`
	Order         TemplateConfig `mapstructure:"order"`
}

// TemplateConfig holds per-event-kind template addressing.
type TemplateConfig struct {
	TemplateName   string `mapstructure:"template_name"`
	HeaderImageURL string `mapstructure:"header_image_url"`
	DiscountCode   string `mapstructure:"discount_code"`
}

// PhoneConfig holds phone parsing settings.
type PhoneConfig struct {
	// DefaultRegion is assumed for numbers without a country code (ISO 3166-1).
	DefaultRegion string `mapstructure:"default_region"`
}

// CooldownConfig holds recipient cooldown settings.
type CooldownConfig struct {
	WindowHours int `mapstructure:"window_hours"`
}

// AuthConfig holds API key authentication settings for the ops API.
type AuthConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
}

// CORSConfig holds CORS policy settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SupabaseConfig holds Supabase project settings.
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// QueueConfig holds async queue settings.
type QueueConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// DedupConfig holds atomic event reservation settings.
type DedupConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	TTLHours int  `mapstructure:"ttl_hours"`
}

// MonitorConfig holds failure monitor settings (durations as seconds for
// YAML/env compat).
type MonitorConfig struct {
	IntervalSec int `mapstructure:"interval_sec"`
	LookbackSec int `mapstructure:"lookback_sec"`
	BatchSize   int `mapstructure:"batch_size"`
}

// Load reads configuration from config.yaml and environment variables.
// Environment variables use the ORDERPING_ prefix and underscore separators.
// Example: ORDERPING_SERVER_PORT overrides server.port in config.yaml.
func Load() (*Config, error) {
	v := viper.New()

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Load .env file if it exists
	_ = godotenv.Load()

	// Environment variable settings
	v.SetEnvPrefix("ORDERPING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("webhook.signature_header", "X-Webhook-Signature")
	v.SetDefault("whatsapp.base_url", "https://graph.facebook.com/v20.0")
	v.SetDefault("phone.default_region", "IN")
	v.SetDefault("cooldown.window_hours", 24)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("dedup.enabled", true)
	v.SetDefault("dedup.ttl_hours", 48)
	v.SetDefault("monitor.interval_sec", 300)
	v.SetDefault("monitor.lookback_sec", 600)
	v.SetDefault("monitor.batch_size", 50)

	// Read config file (optional — env vars can provide everything)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Handle comma-separated API keys from env var
	if apiKeysStr := v.GetString("auth.api_keys"); apiKeysStr != "" && len(cfg.Auth.APIKeys) == 0 {
		keys := strings.Split(apiKeysStr, ",")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
		}
		cfg.Auth.APIKeys = keys
	}

	return &cfg, nil
}
