package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// ConfirmURL is the public base of the e-mail confirmation link.
	ConfirmURL string `env:"CONFIRM_URL, default=http://localhost:8080/auth/confirm"`

	Postgres  PostgresConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Mail      MailConfig
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN, default=host=localhost user=postgres password=postgres dbname=sgea port=5432 sslmode=disable"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=sgea"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SMTPConfig configures outgoing mail. An empty Host logs mails instead of
// sending them.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT,     default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM,     default=no-reply@sgea.local"`
}

type StorageConfig struct {
	Driver           string `env:"STORAGE_DRIVER,    default=local"` // local | cloudinary
	LocalDir         string `env:"STORAGE_LOCAL_DIR, default=./media"`
	CloudinaryURL    string `env:"CLOUDINARY_URL"`
	CloudinaryFolder string `env:"CLOUDINARY_FOLDER, default=sgea"`
}

type RateLimitConfig struct {
	Window        time.Duration `env:"RATE_LIMIT_WINDOW,       default=1m"`
	EventList     int64         `env:"RATE_LIMIT_EVENT_LIST,   default=60"`
	Registrations int64         `env:"RATE_LIMIT_REGISTRATION, default=10"`
}

type MailConfig struct {
	Workers int `env:"MAIL_WORKERS, default=4"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads configuration from the environment using go-envconfig. Values in
// an optional .env file are loaded first and never override the real
// environment.
func Load(ctx context.Context, files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// A missing file is not an error.
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
