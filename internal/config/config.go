package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        int           `envconfig:"PORT" default:"8080"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL string        `envconfig:"DATABASE_URL" required:"true"`
	Version     string        `envconfig:"VERSION" default:"dev"`
	CORSOrigins []string      `envconfig:"CORS_ORIGIN" default:"*"`
	JWTSecret   string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"12h"`
	BcryptCost  int           `envconfig:"BCRYPT_COST" default:"12"`

	// LockWait bounds how long a submission waits for a contended team
	// lock before failing as retryable.
	LockWait time.Duration `envconfig:"LOCK_WAIT" default:"5s"`

	// PinRateLimit is the allowed number of pin submissions per minute
	// for one team+origin pair.
	PinRateLimit int `envconfig:"PIN_RATE_LIMIT" default:"8"`

	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" default:""`
	TelegramChatID   int64  `envconfig:"TELEGRAM_CHAT_ID" default:"0"`
}

// Load reads configuration from environment variables into a Config struct.
// A .env file in the working directory is applied first without overriding
// variables already set in the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
