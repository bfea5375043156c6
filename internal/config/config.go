// Package config holds runtime settings shared by the CLI, the HTTP server
// and the pull request bot.
package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/lawndlwd/doc-drift/internal/kb"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is threaded explicitly into the components that need it.
type Config struct {
	Env             string
	Addr            string
	LogLevel        string
	GitHubToken     string
	GitHubURL       string
	NotionToken     string
	ConfluenceURL   string
	ConfluenceUser  string
	ConfluenceToken string
	HTTPTimeout     time.Duration
	DetailsURL      string
	Concurrency     int
}

// Register binds the settings to fs. Flag defaults come from the
// environment so both sources work.
func Register(fs *pflag.FlagSet) *Config {
	cfg := &Config{}
	fs.StringVar(&cfg.Env, "env", Env(EnvDevelopment, "DOC_DRIFT_ENV", "APP_ENV"), "Environment (development or production)")
	fs.StringVar(&cfg.Addr, "addr", Env(":8080", "DOC_DRIFT_ADDR", "ADDR"), "HTTP listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", Env("info", "LOG_LEVEL"), "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.GitHubToken, "github-token", Env("", "GITHUB_TOKEN", "GH_TOKEN"), "GitHub token")
	fs.StringVar(&cfg.GitHubURL, "github-url", Env("", "GITHUB_API_URL"), "GitHub API URL (GitHub Enterprise)")
	fs.StringVar(&cfg.NotionToken, "notion-token", Env("", "NOTION_TOKEN"), "Notion integration token")
	fs.StringVar(&cfg.ConfluenceURL, "confluence-url", Env("", "CONFLUENCE_URL"), "Confluence site URL")
	fs.StringVar(&cfg.ConfluenceUser, "confluence-user", Env("", "CONFLUENCE_USER"), "Confluence user e-mail")
	fs.StringVar(&cfg.ConfluenceToken, "confluence-token", Env("", "CONFLUENCE_TOKEN"), "Confluence API token")
	fs.DurationVar(&cfg.HTTPTimeout, "http-timeout", EnvDuration("HTTP_TIMEOUT", 10*time.Second), "Timeout for title and knowledge base lookups")
	fs.StringVar(&cfg.DetailsURL, "details-url", Env("", "DETAILS_URL"), "Details URL for action_required check runs")
	fs.IntVar(&cfg.Concurrency, "concurrency", EnvInt("CONCURRENCY", 8), "Maximum parallel file and link lookups")
	return cfg
}

// Validate checks values flags cannot constrain.
func (c *Config) Validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return errors.New("env must be development or production")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("http timeout must be positive")
	}
	if (c.ConfluenceURL == "") != (c.ConfluenceToken == "") {
		return errors.New("confluence url and token must be set together")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

// Logger builds the process logger: JSON in production, text otherwise.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.LogLevel)}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Connectors returns the knowledge base connectors whose credentials are set.
func (c *Config) Connectors(logger *slog.Logger) []kb.Connector {
	if logger == nil {
		logger = slog.Default()
	}
	var out []kb.Connector
	if c.NotionToken != "" {
		out = append(out, kb.NewNotion(c.NotionToken, "", c.HTTPTimeout))
	}
	if c.ConfluenceURL != "" && c.ConfluenceToken != "" {
		conf, err := kb.NewConfluence(c.ConfluenceURL, c.ConfluenceUser, c.ConfluenceToken, c.HTTPTimeout)
		if err != nil {
			logger.Warn("confluence disabled", "error", err)
		} else {
			out = append(out, conf)
		}
	}
	return out
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Env returns the first non-empty environment variable among keys.
func Env(fallback string, keys ...string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return fallback
}

func EnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func EnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func EnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
