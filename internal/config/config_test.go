package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_EnvFallback(t *testing.T) {
	t.Setenv("DOC_DRIFT_ENV", "")
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("CONCURRENCY", "not-a-number")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg := Register(fs)
	require.NoError(t, fs.Parse(nil))

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 8, cfg.Concurrency)
	require.NoError(t, cfg.Validate())
}

func TestRegister_FlagsWin(t *testing.T) {
	t.Setenv("DOC_DRIFT_ADDR", ":9000")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg := Register(fs)
	require.NoError(t, fs.Parse([]string{"--addr", ":7000", "--concurrency", "2"}))

	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 2, cfg.Concurrency)
}

func TestValidate(t *testing.T) {
	base := Config{Env: EnvDevelopment, HTTPTimeout: time.Second}
	require.NoError(t, base.Validate())

	bad := base
	bad.Env = "staging"
	assert.Error(t, bad.Validate())

	bad = base
	bad.HTTPTimeout = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.ConfluenceURL = "https://acme.atlassian.net/wiki"
	assert.Error(t, bad.Validate())
}

func TestConnectors(t *testing.T) {
	cfg := Config{HTTPTimeout: time.Second}
	assert.Empty(t, cfg.Connectors(nil))

	cfg.NotionToken = "n"
	cfg.ConfluenceURL = "https://acme.atlassian.net/wiki"
	cfg.ConfluenceToken = "c"
	assert.Len(t, cfg.Connectors(nil), 2)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Env: EnvProduction, LogLevel: "warn"}

	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "file", "a.ts")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"file":"a.ts"`)
}
