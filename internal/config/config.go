package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName        string
	AppEnv         string
	AppPort        string
	DatabaseURL    string
	RedisURL       string
	NATSURL        string
	ScoredSubject  string
	OpenAIAPIKey   string
	OpenAIModel    string
	OracleTimeout  time.Duration
	ScoresCacheTTL time.Duration
	UploadMaxBytes int64
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SCRIBA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Scriba API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("nats.subject", "scriba.transcript.scored")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("oracle_timeout_ms", 10000)
	v.SetDefault("scores.cache_ttl", "5m")
	v.SetDefault("upload.max_bytes", 1<<20)

	ttlString := v.GetString("scores.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid scores cache ttl: %w", err)
	}

	timeoutMs := v.GetInt("oracle_timeout_ms")
	if timeoutMs <= 0 {
		timeoutMs = 10000
	}

	cfg := Config{
		AppName:        v.GetString("app.name"),
		AppEnv:         v.GetString("app.env"),
		AppPort:        v.GetString("app.port"),
		DatabaseURL:    v.GetString("database.url"),
		RedisURL:       v.GetString("redis.url"),
		NATSURL:        v.GetString("nats.url"),
		ScoredSubject:  v.GetString("nats.subject"),
		OpenAIAPIKey:   v.GetString("openai_api_key"),
		OpenAIModel:    v.GetString("openai.model"),
		OracleTimeout:  time.Duration(timeoutMs) * time.Millisecond,
		ScoresCacheTTL: ttl,
		UploadMaxBytes: v.GetInt64("upload.max_bytes"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = 1 << 20
	}

	return cfg, nil
}
