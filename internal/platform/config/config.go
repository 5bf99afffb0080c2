package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	LogLevel     string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	SessionCookieName string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	UploadDir      string
	MaxUploadBytes int64

	WaveAPIBaseURL        string
	WaveWebhookTolerance  time.Duration
	WaveInboxPollInterval time.Duration
	WaveInboxBatchSize    int
	WaveInboxMaxAttempts  int

	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	MailFrom          string
	EmailPollInterval time.Duration
	EmailMaxAttempts  int

	AIAPIKey            string
	AIBaseURL           string
	AIModel             string
	AIRequestsPerMinute int

	RedisURL          string
	DashboardCacheTTL time.Duration

	PosthogAPIKey  string
	LoginRateLimit string
	JobsEnabled    bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "freelance-backend")
	viper.SetDefault("SESSION_COOKIE_NAME", "fb_session")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	viper.SetDefault("WAVE_API_BASE_URL", "https://api.wave.com")
	viper.SetDefault("WAVE_WEBHOOK_TOLERANCE", "5m")
	viper.SetDefault("WAVE_INBOX_POLL_INTERVAL", "2s")
	viper.SetDefault("WAVE_INBOX_BATCH_SIZE", 20)
	viper.SetDefault("WAVE_INBOX_MAX_ATTEMPTS", 5)
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("MAIL_FROM", "")
	viper.SetDefault("EMAIL_POLL_INTERVAL", "5s")
	viper.SetDefault("EMAIL_MAX_ATTEMPTS", 5)
	viper.SetDefault("AI_API_KEY", "")
	viper.SetDefault("AI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("AI_MODEL", "gpt-4o-mini")
	viper.SetDefault("AI_REQUESTS_PER_MINUTE", 10)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("DASHBOARD_CACHE_TTL", "60s")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("JOBS_ENABLED", true)

	// Environment variables override defaults and values loaded from .env.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = parseDuration("JWT_EXPIRY_DURATION", 24*time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "freelance-backend"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}
	cfg.SessionCookieName = viper.GetString("SESSION_COOKIE_NAME")
	if cfg.SessionCookieName == "" {
		cfg.SessionCookieName = "fb_session"
	}

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET not set. Google sign-in will not function.")
	}

	cfg.UploadDir = viper.GetString("UPLOAD_DIR")
	cfg.MaxUploadBytes = viper.GetInt64("MAX_UPLOAD_BYTES")
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
		log.Printf("Warning: Invalid MAX_UPLOAD_BYTES. Defaulting to %d.\n", cfg.MaxUploadBytes)
	}

	cfg.WaveAPIBaseURL = viper.GetString("WAVE_API_BASE_URL")
	cfg.WaveWebhookTolerance = parseDuration("WAVE_WEBHOOK_TOLERANCE", 5*time.Minute)
	cfg.WaveInboxPollInterval = parseDuration("WAVE_INBOX_POLL_INTERVAL", 2*time.Second)
	cfg.WaveInboxBatchSize = positiveInt("WAVE_INBOX_BATCH_SIZE", 20)
	cfg.WaveInboxMaxAttempts = positiveInt("WAVE_INBOX_MAX_ATTEMPTS", 5)

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = positiveInt("SMTP_PORT", 587)
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.MailFrom = viper.GetString("MAIL_FROM")
	cfg.EmailPollInterval = parseDuration("EMAIL_POLL_INTERVAL", 5*time.Second)
	cfg.EmailMaxAttempts = positiveInt("EMAIL_MAX_ATTEMPTS", 5)
	if cfg.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST not set. Outbound email is disabled.")
	}

	cfg.AIAPIKey = viper.GetString("AI_API_KEY")
	cfg.AIBaseURL = viper.GetString("AI_BASE_URL")
	cfg.AIModel = viper.GetString("AI_MODEL")
	cfg.AIRequestsPerMinute = positiveInt("AI_REQUESTS_PER_MINUTE", 10)
	if cfg.AIAPIKey == "" {
		log.Println("Warning: AI_API_KEY not set. The assistant will answer 503.")
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.DashboardCacheTTL = parseDuration("DASHBOARD_CACHE_TTL", time.Minute)

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")
	if cfg.LoginRateLimit == "" {
		cfg.LoginRateLimit = "5-M"
	}
	cfg.JobsEnabled = viper.GetBool("JOBS_ENABLED")

	return cfg, nil
}

// parseDuration reads key as a Go duration, falling back to def with a warning.
func parseDuration(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func positiveInt(key string, def int) int {
	v := viper.GetInt(key)
	if v <= 0 {
		log.Printf("Warning: Invalid value for %s. Defaulting to %d.\n", key, def)
		return def
	}
	return v
}
