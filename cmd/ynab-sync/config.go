package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/eshaffer321/ynab-go/pkg/ynab"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds ynab-sync settings. Environment variables (optionally from a
// .env file) provide defaults, flags override them.
type Config struct {
	Token     string        `validate:"required"`
	BudgetID  string        `validate:"required"`
	BaseURL   string        `validate:"required,url"`
	StatePath string        `validate:"required"`
	Interval  time.Duration `validate:"gte=1s"`
	Timeout   time.Duration `validate:"gte=1s"`
	Env       string        `validate:"oneof=development production"`
	SentryDSN string
	Once      bool
}

// LoadConfig reads the environment, then applies args as flags
func LoadConfig(args []string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	interval, err := getEnvAsDuration("YNAB_SYNC_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	timeout, err := getEnvAsDuration("YNAB_TIMEOUT", ynab.DefaultTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Token:     getEnv("YNAB_TOKEN", ""),
		BudgetID:  getEnv("YNAB_BUDGET_ID", ynab.LastUsedBudget),
		BaseURL:   getEnv("YNAB_BASE_URL", ynab.DefaultBaseURL),
		StatePath: getEnv("YNAB_STATE_PATH", "ynab-sync.db"),
		Interval:  interval,
		Timeout:   timeout,
		Env:       getEnv("APP_ENV", "development"),
		SentryDSN: getEnv("SENTRY_DSN", ""),
	}

	fs := flag.NewFlagSet("ynab-sync", flag.ContinueOnError)
	fs.StringVar(&cfg.BudgetID, "budget", cfg.BudgetID, "budget id to mirror (or last-used)")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "API base URL")
	fs.StringVar(&cfg.StatePath, "state", cfg.StatePath, "path of the SQLite mirror")
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "time between sync cycles")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP timeout per request")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "development or production")
	fs.BoolVar(&cfg.Once, "once", false, "run a single sync cycle and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return errors.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90")
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	return d, nil
}
