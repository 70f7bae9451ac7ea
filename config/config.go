package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Supabase backend. All three are required; the service cannot start
	// without them.
	SupabaseURL            string `mapstructure:"SUPABASE_URL"`
	SupabaseAnonKey        string `mapstructure:"SUPABASE_ANON_KEY"`
	SupabaseServiceRoleKey string `mapstructure:"SUPABASE_SERVICE_ROLE_KEY"`

	// Outbound call timeouts, in seconds.
	AuthTimeoutSeconds    int `mapstructure:"AUTH_TIMEOUT_SECONDS"`
	BackendTimeoutSeconds int `mapstructure:"BACKEND_TIMEOUT_SECONDS"`

	// Comma-separated CORS allowlist.
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// ConfigurationError reports missing startup parameters. It is fatal: the
// service must not come up without a complete backend configuration.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// Load reads configuration from a .env file (if present), an optional
// config.yaml, and the environment. Environment variables win.
func Load() (Config, error) {
	// A local .env is optional and only used for development.
	_ = godotenv.Load(".env")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("AUTH_TIMEOUT_SECONDS", 3)
	viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 10)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost,http://localhost:3000")

	// Viper only surfaces env vars it has seen; bind the required ones
	// explicitly so AutomaticEnv picks them up without a config file.
	for _, key := range []string{"SUPABASE_URL", "SUPABASE_ANON_KEY", "SUPABASE_SERVICE_ROLE_KEY"} {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	var missing []string
	if strings.TrimSpace(cfg.SupabaseURL) == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if strings.TrimSpace(cfg.SupabaseAnonKey) == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if strings.TrimSpace(cfg.SupabaseServiceRoleKey) == "" {
		missing = append(missing, "SUPABASE_SERVICE_ROLE_KEY")
	}
	if len(missing) > 0 {
		return Config{}, &ConfigurationError{Missing: missing}
	}

	cfg.SupabaseURL = strings.TrimRight(strings.TrimSpace(cfg.SupabaseURL), "/")

	return cfg, nil
}

// AllowedOrigins splits the configured CORS allowlist.
func (c Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// GetEnv returns the application environment.
func (c Config) GetEnv() string {
	return c.Env
}

// IsProduction checks if the environment is production.
func (c Config) IsProduction() bool {
	return c.GetEnv() == "production"
}
