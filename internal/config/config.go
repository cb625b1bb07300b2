package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every environment-driven setting of the backend.
type Config struct {
	AppEnv    string
	Port      string
	LogLevel  string
	LogFormat string

	DatabaseURL string
	DBMaxConns  int32
	RedisURL    string

	UploadDir string

	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	RateLimitWindow time.Duration
	RateLimitMax    int

	RecaptchaSecretKey string

	CompanyEmail string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "4000"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		RecaptchaSecretKey: getEnv("RECAPTCHA_SECRET_KEY", ""),
		CompanyEmail:       getEnv("COMPANY_EMAIL", "info@alx-pc.com"),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	if maxConns < 1 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	cfg.DBMaxConns = int32(maxConns)

	ttlSeconds, err := getEnvInt("CACHE_TTL_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	if ttlSeconds < 1 {
		return nil, fmt.Errorf("CACHE_TTL_SECONDS must be at least 1")
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	sweepSeconds, err := getEnvInt("CACHE_SWEEP_SECONDS", 120)
	if err != nil {
		return nil, err
	}
	if sweepSeconds < 1 {
		return nil, fmt.Errorf("CACHE_SWEEP_SECONDS must be at least 1")
	}
	cfg.CacheSweepInterval = time.Duration(sweepSeconds) * time.Second

	windowMS, err := getEnvInt("RATE_LIMIT_WINDOW_MS", 60000)
	if err != nil {
		return nil, err
	}
	if windowMS < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW_MS must be at least 1")
	}
	cfg.RateLimitWindow = time.Duration(windowMS) * time.Millisecond

	cfg.RateLimitMax, err = getEnvInt("RATE_LIMIT_MAX_REQUESTS", 5)
	if err != nil {
		return nil, err
	}
	if cfg.RateLimitMax < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be at least 1")
	}

	cfg.SMTPPort, err = getEnvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	// SMTP settings are all-or-nothing; a half-configured mailer is a
	// deployment mistake, not a disabled mailer.
	smtpSet := cfg.SMTPHost != "" || cfg.SMTPUser != "" || cfg.SMTPPassword != ""
	if smtpSet && (cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPassword == "") {
		return nil, fmt.Errorf("SMTP_HOST, SMTP_USER and SMTP_PASSWORD must be set together")
	}

	return cfg, nil
}

// MailEnabled reports whether outbound notification mail is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
