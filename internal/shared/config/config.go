package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Site is the static branding shown on admin pages. It is read once at
// startup and never mutated.
type Site struct {
	Header string
	Title  string
}

// HTTPConfig configures the public API server.
type HTTPConfig struct {
	Addr           string
	AllowedOrigins []string
}

// AuthConfig configures token issuance and email OTPs.
type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration
	OTPTTL    time.Duration
}

// RedisConfig points at the OTP cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Moderator bot update delivery modes.
const (
	BotModePolling = "polling"
	BotModeWebhook = "webhook"
)

// BotConnectionConfig configures the optional moderator bot.
type BotConnectionConfig struct {
	Token        string
	Mode         string // "polling" or "webhook"
	ReviewChatID int64
	Polling      struct {
		WorkerPoolSize int
	}
	Webhook struct {
		URL        string
		ListenPort int
	}
}

// Enabled reports whether a bot token was configured.
func (b BotConnectionConfig) Enabled() bool {
	return b.Token != ""
}

// BusinessConfig holds the platform thresholds.
type BusinessConfig struct {
	VarianceThreshold        decimal.Decimal
	RiskScoreThreshold       decimal.Decimal
	AutoSuspendFlags         int
	AutoSuspendWindow        time.Duration
	MaxConcurrentPickups     int
	CommissionSplitUser      decimal.Decimal
	CommissionSplitCollector decimal.Decimal
}

// DefaultBusinessConfig returns the production thresholds.
func DefaultBusinessConfig() BusinessConfig {
	return BusinessConfig{
		VarianceThreshold:        decimal.NewFromInt(30),
		RiskScoreThreshold:       decimal.NewFromInt(50),
		AutoSuspendFlags:         3,
		AutoSuspendWindow:        168 * time.Hour,
		MaxConcurrentPickups:     3,
		CommissionSplitUser:      decimal.RequireFromString("0.70"),
		CommissionSplitCollector: decimal.RequireFromString("0.30"),
	}
}

// Config holds all configuration for the application.
type Config struct {
	AppEnv        string
	LogLevel      string
	EncryptionKey string
	DatabaseURL   string
	HTTP          HTTPConfig
	Auth          AuthConfig
	Redis         RedisConfig
	Site          Site
	Moderator     BotConnectionConfig
	Business      BusinessConfig
}

// IsDev reports whether console logging and relaxed defaults apply.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

// envBindings maps viper keys to environment variable names.
var envBindings = map[string]string{
	"app.env":                         "APP_ENV",
	"log.level":                       "LOG_LEVEL",
	"encryption.key":                  "ENCRYPTION_KEY",
	"database.url":                    "DATABASE_URL",
	"http.addr":                       "HTTP_ADDR",
	"http.cors_allowed_origins":       "CORS_ALLOWED_ORIGINS",
	"auth.jwt_secret":                 "JWT_SECRET",
	"auth.jwt_issuer":                 "JWT_ISSUER",
	"auth.jwt_ttl":                    "JWT_TTL",
	"auth.otp_ttl":                    "OTP_TTL",
	"redis.addr":                      "REDIS_ADDR",
	"redis.password":                  "REDIS_PASSWORD",
	"redis.db":                        "REDIS_DB",
	"site.header":                     "SITE_HEADER",
	"site.title":                      "SITE_TITLE",
	"moderator.token":                 "MODERATOR_BOT_TOKEN",
	"moderator.mode":                  "MODERATOR_BOT_MODE",
	"moderator.review_chat_id":        "MODERATOR_REVIEW_CHAT_ID",
	"moderator.workers":               "MODERATOR_WORKER_POOL_SIZE",
	"moderator.webhook_url":           "MODERATOR_WEBHOOK_URL",
	"moderator.webhook_port":          "MODERATOR_WEBHOOK_PORT",
	"business.variance_threshold":     "VARIANCE_THRESHOLD",
	"business.risk_score_threshold":   "RISK_SCORE_THRESHOLD",
	"business.auto_suspend_flags":     "AUTO_SUSPEND_FLAGS",
	"business.auto_suspend_window":    "AUTO_SUSPEND_WINDOW",
	"business.max_concurrent_pickups": "MAX_CONCURRENT_PICKUPS",
	"business.commission_split_user":  "COMMISSION_SPLIT_USER",
	"business.commission_split_coll":  "COMMISSION_SPLIT_COLLECTOR",
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// 1. Load .env file into the process environment.
	// A missing file is fine; OS-set variables are used instead.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// 2. Bind viper keys to env var names
	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	// 3. Set defaults
	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.cors_allowed_origins", "*")
	v.SetDefault("auth.jwt_issuer", "erecyclo")
	v.SetDefault("auth.jwt_ttl", "24h")
	v.SetDefault("auth.otp_ttl", "10m")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("site.header", "🏭 E-RECYCLO Administration")
	v.SetDefault("site.title", "E-RECYCLO Admin")
	v.SetDefault("moderator.mode", "polling")
	v.SetDefault("moderator.workers", 4)
	v.SetDefault("moderator.webhook_port", 8443)

	defaults := DefaultBusinessConfig()
	v.SetDefault("business.variance_threshold", defaults.VarianceThreshold.String())
	v.SetDefault("business.risk_score_threshold", defaults.RiskScoreThreshold.String())
	v.SetDefault("business.auto_suspend_flags", defaults.AutoSuspendFlags)
	v.SetDefault("business.auto_suspend_window", defaults.AutoSuspendWindow.String())
	v.SetDefault("business.max_concurrent_pickups", defaults.MaxConcurrentPickups)
	v.SetDefault("business.commission_split_user", defaults.CommissionSplitUser.String())
	v.SetDefault("business.commission_split_coll", defaults.CommissionSplitCollector.String())

	// 4. Get values from viper
	cfg := Config{
		AppEnv:        v.GetString("app.env"),
		LogLevel:      v.GetString("log.level"),
		EncryptionKey: v.GetString("encryption.key"),
		DatabaseURL:   v.GetString("database.url"),
		HTTP: HTTPConfig{
			Addr:           v.GetString("http.addr"),
			AllowedOrigins: splitList(v.GetString("http.cors_allowed_origins")),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			JWTIssuer: v.GetString("auth.jwt_issuer"),
			JWTTTL:    v.GetDuration("auth.jwt_ttl"),
			OTPTTL:    v.GetDuration("auth.otp_ttl"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Site: Site{
			Header: v.GetString("site.header"),
			Title:  v.GetString("site.title"),
		},
	}

	cfg.Moderator.Token = v.GetString("moderator.token")
	cfg.Moderator.Mode = v.GetString("moderator.mode")
	cfg.Moderator.ReviewChatID = v.GetInt64("moderator.review_chat_id")
	cfg.Moderator.Polling.WorkerPoolSize = v.GetInt("moderator.workers")
	cfg.Moderator.Webhook.URL = v.GetString("moderator.webhook_url")
	cfg.Moderator.Webhook.ListenPort = v.GetInt("moderator.webhook_port")

	business, err := loadBusiness(v)
	if err != nil {
		return nil, err
	}
	cfg.Business = business

	// 5. Validation
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadBusiness(v *viper.Viper) (BusinessConfig, error) {
	var b BusinessConfig
	var err error

	decimals := []struct {
		key string
		dst *decimal.Decimal
	}{
		{"business.variance_threshold", &b.VarianceThreshold},
		{"business.risk_score_threshold", &b.RiskScoreThreshold},
		{"business.commission_split_user", &b.CommissionSplitUser},
		{"business.commission_split_coll", &b.CommissionSplitCollector},
	}
	for _, d := range decimals {
		if *d.dst, err = decimal.NewFromString(v.GetString(d.key)); err != nil {
			return b, fmt.Errorf("%s must be a number: %w", envBindings[d.key], err)
		}
	}

	b.AutoSuspendFlags = v.GetInt("business.auto_suspend_flags")
	b.AutoSuspendWindow = v.GetDuration("business.auto_suspend_window")
	b.MaxConcurrentPickups = v.GetInt("business.max_concurrent_pickups")
	return b, nil
}

func (c *Config) validate() error {
	if c.EncryptionKey == "" {
		return errors.New("ENCRYPTION_KEY is not set in environment or .env file")
	}
	if len(c.EncryptionKey) != 64 {
		return fmt.Errorf("ENCRYPTION_KEY must be a 64-character hex string (32 bytes), but got %d chars", len(c.EncryptionKey))
	}
	if _, err := hex.DecodeString(c.EncryptionKey); err != nil {
		return fmt.Errorf("ENCRYPTION_KEY is not valid hex: %w", err)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if c.Auth.JWTTTL <= 0 || c.Auth.OTPTTL <= 0 {
		return errors.New("JWT_TTL and OTP_TTL must be positive durations")
	}
	if c.Moderator.Enabled() {
		switch c.Moderator.Mode {
		case BotModePolling, BotModeWebhook:
		default:
			return fmt.Errorf("unknown MODERATOR_BOT_MODE: %s", c.Moderator.Mode)
		}
		if c.Moderator.ReviewChatID == 0 {
			return errors.New("MODERATOR_REVIEW_CHAT_ID is required when the moderator bot is enabled")
		}
	}

	b := c.Business
	if !b.VarianceThreshold.IsPositive() || !b.RiskScoreThreshold.IsPositive() {
		return errors.New("VARIANCE_THRESHOLD and RISK_SCORE_THRESHOLD must be positive")
	}
	if b.AutoSuspendFlags <= 0 || b.AutoSuspendWindow <= 0 {
		return errors.New("AUTO_SUSPEND_FLAGS and AUTO_SUSPEND_WINDOW must be positive")
	}
	if b.MaxConcurrentPickups <= 0 {
		return errors.New("MAX_CONCURRENT_PICKUPS must be positive")
	}
	if !b.CommissionSplitUser.Add(b.CommissionSplitCollector).Equal(decimal.NewFromInt(1)) {
		return errors.New("COMMISSION_SPLIT_USER and COMMISSION_SPLIT_COLLECTOR must add up to 1")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
