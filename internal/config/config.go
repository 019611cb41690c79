package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Spendwise"`
		Port     int    `envconfig:"PORT" default:"5000"`
		// APIPort is the older name for PORT, used only when PORT is unset.
		APIPort  int    `envconfig:"API_PORT"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	// DB is optional. Without DATABASE_URL or DB_HOST the API keeps its data
	// in memory.
	DB struct {
		URL      string `envconfig:"DATABASE_URL"`
		Host     string `envconfig:"DB_HOST"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"spendwise"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET" default:"dev-secret"`
		TokenTTL  time.Duration `envconfig:"JWT_TTL" default:"24h"`
	}

	AI struct {
		GeminiKey   string        `envconfig:"GEMINI_API_KEY"`
		GeminiModel string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
		OpenAIKey   string        `envconfig:"OPENAI_API_KEY"`
		OpenAIModel string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
		Timeout     time.Duration `envconfig:"AI_TIMEOUT" default:"15s"`
		RateLimit   int           `envconfig:"AI_RATE_LIMIT" default:"30"`
		RateBurst   int           `envconfig:"AI_RATE_BURST" default:"5"`
	}
}

// UseDatabase reports whether a relational backend is configured.
func (c *Config) UseDatabase() bool {
	return c.DB.URL != "" || c.DB.Host != ""
}

func (c *Config) ConnectionString() string {
	if c.DB.URL != "" {
		return c.DB.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:     c.DB.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.DB.SSLMode),
	}

	return u.String()
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return level
}

// Load reads .env.local and .env when present, then the environment.
// Variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if _, set := os.LookupEnv("PORT"); !set && cfg.App.APIPort != 0 {
		cfg.App.Port = cfg.App.APIPort
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}

	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}

	if c.AI.RateLimit <= 0 || c.AI.RateBurst <= 0 {
		errs = append(errs, errors.New("AI_RATE_LIMIT and AI_RATE_BURST must be positive"))
	}

	return errors.Join(errs...)
}
