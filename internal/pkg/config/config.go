package config

import (
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	Host            string `env:"HOST" envDefault:"0.0.0.0"`
	Port            int    `env:"PORT" envDefault:"3000"`
	AdminServerAddr string `env:"ADMIN_SERVER_ADDR" envDefault:":9091"`

	ElasticsearchURLs     []string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200" envSeparator:","`
	ElasticsearchIndex    string   `env:"ELASTICSEARCH_INDEX" envDefault:"events"`
	ElasticsearchListSize int      `env:"ELASTICSEARCH_LIST_SIZE" envDefault:"1000"`

	EventIngestURL string        `env:"EVENT_INGEST_URL" envDefault:"http://localhost:8080/v1/events"`
	IngestTimeout  time.Duration `env:"INGEST_TIMEOUT" envDefault:"30s"`
	APIBaseURL     string        `env:"API_BASE_URL" envDefault:"http://localhost:8000"`

	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE_BYTES" envDefault:"10485760"` // 10MB

	RedisURL               string `env:"REDIS_URL"` // empty disables the recent submissions feed
	RecentSubmissionsKey   string `env:"RECENT_SUBMISSIONS_KEY" envDefault:"event-admin:recent-submissions"`
	RecentSubmissionsLimit int    `env:"RECENT_SUBMISSIONS_LIMIT" envDefault:"20"`

	LogRedactFields []string `env:"LOG_REDACT_FIELDS" envDefault:"contact_email" envSeparator:","`
}

// Addr is the listen address of the main HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
