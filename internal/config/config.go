// Package config centralises configuration parsing for the VolunteerHub services.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const prefix = "volunteerhub"

// Config captures runtime configuration values. Every field is read from
// VOLUNTEERHUB_<FIELD_NAME> via envconfig.
type Config struct {
	HTTPAddress     string        `split_words:"true" default:":3000"`
	DevMode         bool          `split_words:"true" default:"false"`
	LogLevel        string        `split_words:"true" default:"info"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`

	// CORSOrigins lists the browser origins allowed to send credentials. "*" allows any origin
	// without credentials.
	CORSOrigins  []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000,http://localhost:3001,http://127.0.0.1:3001,http://localhost:5500,http://127.0.0.1:5500"`
	MaxBodyBytes int64    `split_words:"true" default:"102400"`

	// PostgresURL selects the Postgres store. Empty runs against the in-memory store.
	PostgresURL    string        `split_words:"true"`
	AutoMigrate    bool          `split_words:"true" default:"true"`
	RedisURL       string        `split_words:"true"`
	LeaderboardTTL time.Duration `split_words:"true" default:"30s"`

	KafkaBrokers       []string      `split_words:"true"`
	SchemaRegistryURL  string        `split_words:"true"`
	OutboxPollInterval time.Duration `split_words:"true" default:"2s"`
	OutboxBatchSize    int           `split_words:"true" default:"25"`
	DLQPollInterval    time.Duration `envconfig:"DLQ_POLL_INTERVAL" default:"30s"`
	DLQMaxRetries      int           `envconfig:"DLQ_MAX_RETRIES" default:"5"`
	DLQBaseDelay       time.Duration `envconfig:"DLQ_BASE_DELAY" default:"1m"`
	ConsumerGroup      string        `split_words:"true" default:"volunteerhub-audit"`
	ConsumerTopics     []string      `split_words:"true" default:"volunteerhub.activity.v1,volunteerhub.signature.v1"`
	MetricsAddress     string        `split_words:"true" default:":9102"`

	JWTSecret  string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	JWTIssuer  string        `envconfig:"JWT_ISSUER" default:"volunteerhub"`
	JWTTTL     time.Duration `envconfig:"JWT_TTL" default:"168h"`
	BcryptCost int           `split_words:"true" default:"10"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"no-reply@volunteerhub.local"`

	// PublicBaseURL is the origin used in signature links outside dev mode.
	PublicBaseURL string `split_words:"true" default:"https://volunteerhub.app"`
	DevBaseURL    string `split_words:"true" default:"http://localhost:3000"`

	SignatureRatePerSecond float64 `split_words:"true" default:"0.2"`
	SignatureRateBurst     int     `split_words:"true" default:"5"`
}

// Load reads an optional .env file and then the environment into Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("config: no .env file loaded")
	}

	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		_ = envconfig.Usage(prefix, &cfg)
		return Config{}, fmt.Errorf("parse configuration: %w", err)
	}
	return cfg, nil
}

// SignatureBaseURL returns the origin embedded in signature links.
func (c Config) SignatureBaseURL() string {
	if c.DevMode {
		return c.DevBaseURL
	}
	return c.PublicBaseURL
}

// UsePostgres reports whether a Postgres DSN is configured.
func (c Config) UsePostgres() bool {
	return c.PostgresURL != ""
}
