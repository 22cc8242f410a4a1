package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server             ServerConfig             `mapstructure:"server"`
	Auth               AuthConfig               `mapstructure:"auth"`
	Mail               MailConfig               `mapstructure:"mail"`
	Locale             LocaleConfig             `mapstructure:"locale"`
	Templates          TemplatesConfig          `mapstructure:"templates"`
	CORS               CORSConfig               `mapstructure:"cors"`
	RateLimit          RateLimitConfig          `mapstructure:"rate_limit"`
	Redis              RedisConfig              `mapstructure:"redis"`
	Supabase           SupabaseConfig           `mapstructure:"supabase"`
	RecipientRateLimit RecipientRateLimitConfig `mapstructure:"recipient_rate_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Mode     string `mapstructure:"mode"`
	LogLevel string `mapstructure:"log_level"`
}

// AuthConfig holds API key authentication settings.
type AuthConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
}

// MailConfig selects the email transport and holds its credentials.
// Key and Secret are required for every provider.
type MailConfig struct {
	Provider    string `mapstructure:"provider"`
	Key         string `mapstructure:"key"`
	Secret      string `mapstructure:"secret"`
	Region      string `mapstructure:"region"`
	WebmakerURL string `mapstructure:"webmaker_url"`
	SMTPHost    string `mapstructure:"smtp_host"`
	SMTPPort    int    `mapstructure:"smtp_port"`
	DevDir      string `mapstructure:"dev_dir"`
}

// LocaleConfig controls where message catalogs are loaded from.
// An empty Dir uses the catalogs compiled into the binary.
type LocaleConfig struct {
	Dir       string   `mapstructure:"dir"`
	Default   string   `mapstructure:"default"`
	Supported []string `mapstructure:"supported"`
}

// TemplatesConfig controls where email templates are loaded from.
// An empty Dir uses the templates compiled into the binary.
type TemplatesConfig struct {
	Dir string `mapstructure:"dir"`
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

// RedisConfig holds Redis connection settings. An empty Address disables
// per-recipient rate limiting.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SupabaseConfig holds Supabase project settings. An empty URL disables the delivery log.
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// RecipientRateLimitConfig holds per-recipient rate limiting settings.
type RecipientRateLimitConfig struct {
	MaxPerHour int `mapstructure:"max_per_hour"`
}

// Load reads configuration from config.yaml and environment variables.
// Environment variables use the POSTALSERVICE_ prefix and underscore separators.
// Example: POSTALSERVICE_MAIL_PROVIDER overrides mail.provider in config.yaml.
func Load() (*Config, error) {
	return load(".", "./config")
}

func load(paths ...string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Load .env file if it exists
	_ = godotenv.Load()

	v.SetEnvPrefix("POSTALSERVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional, env vars can provide everything)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Env vars arrive as comma-separated strings
	cfg.Auth.APIKeys = trimList(cfg.Auth.APIKeys)
	cfg.Locale.Supported = trimList(cfg.Locale.Supported)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8081)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.api_keys", "")
	v.SetDefault("mail.provider", "ses")
	v.SetDefault("mail.key", "")
	v.SetDefault("mail.secret", "")
	v.SetDefault("mail.region", "us-east-1")
	v.SetDefault("mail.webmaker_url", "https://webmaker.org")
	v.SetDefault("mail.smtp_host", "")
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("mail.dev_dir", "./tmp/emails")
	v.SetDefault("locale.dir", "")
	v.SetDefault("locale.default", "en-US")
	v.SetDefault("locale.supported", "*")
	v.SetDefault("templates.dir", "")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.service_key", "")
	v.SetDefault("recipient_rate_limit.max_per_hour", 3)
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
