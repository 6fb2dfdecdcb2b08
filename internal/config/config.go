package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Backend   BackendConfig   `mapstructure:",squash"`
	Upload    UploadConfig    `mapstructure:",squash"`
	Storage   StorageConfig   `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	RateLimit RateLimitConfig `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
	CookieSecure bool          `mapstructure:"SERVER_COOKIE_SECURE"`
	// CORSOrigins is a comma-separated list of browser origins allowed to
	// make credentialed cross-origin calls.
	CORSOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// BackendConfig describes how to reach the pledge backend API.
type BackendConfig struct {
	// BaseURL is the deploy-time API origin. It is read from API_BASE_URL and
	// the build-tool aliases VITE_API_URL / NEXT_PUBLIC_API_BASE_URL.
	BaseURL     string        `mapstructure:"API_BASE_URL"`
	DevPort     string        `mapstructure:"API_DEV_PORT"`
	FallbackURL string        `mapstructure:"API_FALLBACK_URL"`
	Timeout     time.Duration `mapstructure:"API_TIMEOUT"`
}

// UploadConfig configures the unsigned image upload endpoint.
type UploadConfig struct {
	CloudName string        `mapstructure:"UPLOAD_CLOUD_NAME"`
	Preset    string        `mapstructure:"UPLOAD_PRESET"`
	BaseURL   string        `mapstructure:"UPLOAD_BASE_URL"`
	Timeout   time.Duration `mapstructure:"UPLOAD_TIMEOUT"`
}

type StorageConfig struct {
	Driver string `mapstructure:"STORAGE_DRIVER"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	Prefix   string `mapstructure:"REDIS_PREFIX"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type SchedulerConfig struct {
	OverdueSpec  string `mapstructure:"SCHEDULER_OVERDUE_SPEC"`
	Timezone     string `mapstructure:"SCHEDULER_TIMEZONE"`
	ServiceToken string `mapstructure:"SCHEDULER_SERVICE_TOKEN"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	DefaultInterestRate string `mapstructure:"DEFAULT_INTEREST_RATE"`
	DefaultDuration     int    `mapstructure:"DEFAULT_PLEDGE_DURATION"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RPS     float64 `mapstructure:"RATE_LIMIT_RPS"`
	Burst   int     `mapstructure:"RATE_LIMIT_BURST"`
}

// Storage drivers
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

var defaults = map[string]interface{}{
	"SERVER_PORT":                "8080",
	"SERVER_HOST":                "0.0.0.0",
	"ENV":                        "development",
	"SERVER_READ_TIMEOUT":        "15s",
	"SERVER_WRITE_TIMEOUT":       "60s",
	"SERVER_COOKIE_SECURE":       false,
	"CORS_ALLOWED_ORIGINS":       "",
	"API_BASE_URL":               "",
	"API_DEV_PORT":               "8099",
	"API_FALLBACK_URL":           "http://localhost:8099/api",
	"API_TIMEOUT":                "30s",
	"UPLOAD_CLOUD_NAME":          "djka67lh3",
	"UPLOAD_PRESET":              "jewellery",
	"UPLOAD_BASE_URL":            "https://api.cloudinary.com/v1_1",
	"UPLOAD_TIMEOUT":             "60s",
	"STORAGE_DRIVER":             StorageMemory,
	"REDIS_HOST":                 "localhost",
	"REDIS_PORT":                 "6379",
	"REDIS_PASSWORD":             "",
	"REDIS_DB":                   0,
	"REDIS_PREFIX":               "pledge-desk",
	"DATABASE_URL":               "",
	"DATABASE_MAX_OPEN_CONNS":    10,
	"DATABASE_MAX_IDLE_CONNS":    5,
	"DATABASE_CONN_MAX_LIFETIME": "30m",
	"SCHEDULER_OVERDUE_SPEC":     "0 0 9 * * *",
	"SCHEDULER_TIMEZONE":         "Asia/Kolkata",
	"SCHEDULER_SERVICE_TOKEN":    "",
	"LOG_LEVEL":                  "info",
	"LOG_FORMAT":                 "json",
	"DEFAULT_INTEREST_RATE":      "2",
	"DEFAULT_PLEDGE_DURATION":    12,
	"RATE_LIMIT_ENABLED":         false,
	"RATE_LIMIT_RPS":             5.0,
	"RATE_LIMIT_BURST":           10,
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Optional .env files; real environment variables win.
	_ = godotenv.Load(".env")
	_ = godotenv.Load("deployments/.env")

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	// The API origin goes by a different name depending on the build tool.
	if err := v.BindEnv("API_BASE_URL", "API_BASE_URL", "VITE_API_URL", "NEXT_PUBLIC_API_BASE_URL"); err != nil {
		return nil, fmt.Errorf("unable to bind API_BASE_URL: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Backend.DevPort == "" {
		return fmt.Errorf("API_DEV_PORT is required")
	}

	if c.Backend.FallbackURL == "" {
		return fmt.Errorf("API_FALLBACK_URL is required")
	}

	if c.Upload.CloudName == "" || c.Upload.Preset == "" {
		return fmt.Errorf("UPLOAD_CLOUD_NAME and UPLOAD_PRESET are required")
	}

	switch c.Storage.Driver {
	case StorageMemory, StorageRedis:
	case StoragePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of memory, redis, postgres (got %q)", c.Storage.Driver)
	}

	rate, err := decimal.NewFromString(c.Business.DefaultInterestRate)
	if err != nil {
		return fmt.Errorf("DEFAULT_INTEREST_RATE must be a valid decimal: %w", err)
	}
	if !rate.IsPositive() {
		return fmt.Errorf("DEFAULT_INTEREST_RATE must be greater than 0")
	}

	if c.Business.DefaultDuration <= 0 {
		return fmt.Errorf("DEFAULT_PLEDGE_DURATION must be greater than 0")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be greater than 0")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid location: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// devOrigins are trusted in development when CORS_ALLOWED_ORIGINS is unset.
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// AllowedOrigins returns the origins trusted for credentialed CORS. Outside
// development an unset list trusts no cross-origin caller.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.Server.CORSOrigins, ",") {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 && c.IsDevelopment() {
		return append([]string(nil), devOrigins...)
	}
	return origins
}

// SecureCookies reports whether the client cookie must be HTTPS-only.
// Production always requires it.
func (c *Config) SecureCookies() bool {
	return c.Server.CookieSecure || c.IsProduction()
}

// GetDefaultInterestRate returns the default monthly interest rate percent as decimal
func (c *Config) GetDefaultInterestRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.DefaultInterestRate)
	return rate
}

// UploadEndpoint returns the unsigned upload URL for the configured cloud.
func (c *Config) UploadEndpoint() string {
	return fmt.Sprintf("%s/%s/upload", c.Upload.BaseURL, c.Upload.CloudName)
}

// RedisAddr returns host:port for the redis client.
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

// BackendDevPort returns API_DEV_PORT as a number, or 0 when it is not one.
func (c *Config) BackendDevPort() int {
	port, err := strconv.Atoi(c.Backend.DevPort)
	if err != nil {
		return 0
	}
	return port
}

// SchedulerLocation returns the timezone jobs are scheduled in.
func (c *Config) SchedulerLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
