package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// AppConfig carries everything outside the database layer: the two
// external collaborators and worker pool tuning.
type AppConfig struct {
	TMDBAPIKey  string        `env:"TMDB_API_KEY"`
	TMDBBaseURL string        `env:"TMDB_BASE_URL,default=https://api.themoviedb.org/3"`
	TMDBTimeout time.Duration `env:"TMDB_TIMEOUT,default=10s"`

	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL,default=https://api.openai.com/v1"`
	OpenAIModel   string        `env:"OPENAI_MODEL,default=gpt-5-nano"`
	OpenAITimeout time.Duration `env:"OPENAI_TIMEOUT,default=30s"`

	MaxWorkers int           `env:"MAX_WORKERS,default=4"`
	JobTimeout time.Duration `env:"JOB_TIMEOUT,default=2m"`
	LockFor    time.Duration `env:"JOB_LOCK_DURATION,default=1m"`

	ServerPort string `env:"SERVER_PORT,default=8080"`
}

var envProcess = envconfig.Process

func LoadAppConfigFromEnv(ctx context.Context) (*AppConfig, error) {
	var cfg AppConfig
	if err := envProcess(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := validateAppConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func validateAppConfig(cfg *AppConfig) error {
	var errors []string

	if strings.TrimSpace(cfg.TMDBBaseURL) == "" {
		errors = append(errors, "TMDB_BASE_URL is required")
	}

	if strings.TrimSpace(cfg.OpenAIBaseURL) == "" {
		errors = append(errors, "OPENAI_BASE_URL is required")
	}

	if cfg.MaxWorkers < 1 {
		errors = append(errors, "MAX_WORKERS must be at least 1")
	}

	if cfg.JobTimeout <= 0 {
		errors = append(errors, "JOB_TIMEOUT must be positive")
	}

	if cfg.LockFor <= 0 {
		errors = append(errors, "JOB_LOCK_DURATION must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}
