package main

import (
	"testing"
	"time"

	"github.com/eshaffer321/ynab-go/pkg/ynab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("YNAB_TOKEN", "secret")
	t.Setenv("YNAB_BUDGET_ID", "")
	t.Setenv("YNAB_BASE_URL", "")
	t.Setenv("YNAB_STATE_PATH", "")
	t.Setenv("YNAB_SYNC_INTERVAL", "")
	t.Setenv("YNAB_TIMEOUT", "")
	t.Setenv("APP_ENV", "")

	cfg, err := LoadConfig(nil)

	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, ynab.LastUsedBudget, cfg.BudgetID)
	assert.Equal(t, "https://api.ynab.com/v1", cfg.BaseURL)
	assert.Equal(t, "ynab-sync.db", cfg.StatePath)
	assert.Equal(t, 15*time.Minute, cfg.Interval)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.Once)
}

func TestLoadConfig_EnvAndFlags(t *testing.T) {
	t.Setenv("YNAB_TOKEN", "secret")
	t.Setenv("YNAB_BUDGET_ID", "b-env")
	t.Setenv("YNAB_SYNC_INTERVAL", "90")
	t.Setenv("YNAB_TIMEOUT", "10s")
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig([]string{"-budget", "b-flag", "-once", "-state", "/tmp/mirror.db"})

	require.NoError(t, err)
	assert.Equal(t, "b-flag", cfg.BudgetID)
	assert.Equal(t, 90*time.Second, cfg.Interval)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "/tmp/mirror.db", cfg.StatePath)
	assert.True(t, cfg.Once)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{name: "missing token", env: map[string]string{"YNAB_TOKEN": ""}, want: "Token"},
		{name: "bad interval", env: map[string]string{"YNAB_TOKEN": "x", "YNAB_SYNC_INTERVAL": "soon"}, want: "YNAB_SYNC_INTERVAL"},
		{name: "interval too short", env: map[string]string{"YNAB_TOKEN": "x"}, args: []string{"-interval", "10ms"}, want: "Interval"},
		{name: "unknown env", env: map[string]string{"YNAB_TOKEN": "x", "APP_ENV": "staging"}, want: "Env"},
		{name: "bad base url", env: map[string]string{"YNAB_TOKEN": "x"}, args: []string{"-base-url", "not a url"}, want: "BaseURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("YNAB_SYNC_INTERVAL", "")
			t.Setenv("APP_ENV", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(tt.args)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
