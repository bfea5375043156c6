package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/lawndlwd/doc-drift/internal/alerts"
	"github.com/lawndlwd/doc-drift/internal/config"
	"github.com/lawndlwd/doc-drift/internal/git"
	"github.com/lawndlwd/doc-drift/internal/parser"
	"github.com/lawndlwd/doc-drift/internal/review"
)

type botConfig struct {
	*config.Config
	Owner    string
	Repo     string
	PR       int
	MaxFiles int
	Strict   bool
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := cfg.Logger(os.Stderr)

	gh, err := git.NewGitHub(ctx, cfg.GitHubToken, cfg.Owner, cfg.Repo, cfg.GitHubURL, logger)
	if err != nil {
		exitWithError(err)
	}

	resolver := alerts.NewResolver(cfg.HTTPTimeout, logger, cfg.Connectors(logger)...)
	svc := alerts.NewService(parser.New(), resolver, logger, cfg.Concurrency)

	result, err := review.NewReviewer(gh, svc, logger, cfg.DetailsURL, cfg.MaxFiles).Run(ctx, cfg.PR)
	if err != nil {
		exitWithError(err)
	}

	fmt.Printf("Scanned %d file(s): %d alert(s), %d posted\n", result.Files, len(result.Alerts), result.Posted)

	if cfg.Strict && len(result.Alerts) > 0 {
		os.Exit(1)
	}
}

func loadConfig() (botConfig, error) {
	fs := pflag.NewFlagSet("doc-drift-review", pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Pull request bot flagging documentation links whose code changed\n\nExamples:\n  doc-drift-review --owner acme --repo lib --pr 42\n  GITHUB_REPOSITORY=acme/lib PR_NUMBER=42 doc-drift-review\n\nFlags:\n")
		fs.PrintDefaults()
	}

	cfg := botConfig{Config: config.Register(fs)}
	owner, repo := splitRepository(config.Env("", "GITHUB_REPOSITORY"))
	fs.StringVar(&cfg.Owner, "owner", config.Env(owner, "REPO_OWNER"), "Repository owner")
	fs.StringVar(&cfg.Repo, "repo", config.Env(repo, "REPO_NAME"), "Repository name")
	fs.IntVar(&cfg.PR, "pr", config.EnvInt("PR_NUMBER", 0), "Pull request number")
	fs.IntVar(&cfg.MaxFiles, "max-files", config.EnvInt("MAX_FILES", 0), "Maximum number of files to scan (0 = no limit)")
	fs.BoolVar(&cfg.Strict, "strict", config.EnvBool("STRICT", false), "Exit non-zero when alerts are found")

	fs.AddGoFlagSet(flag.CommandLine)
	_ = fs.Parse(os.Args[1:])

	if err := cfg.Validate(); err != nil {
		return botConfig{}, err
	}
	if cfg.GitHubToken == "" {
		return botConfig{}, errors.New("github token is required")
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return botConfig{}, errors.New("owner and repo are required")
	}
	if cfg.PR <= 0 {
		return botConfig{}, errors.New("pull request number is required")
	}
	return cfg, nil
}

func splitRepository(full string) (string, string) {
	owner, repo, ok := strings.Cut(full, "/")
	if !ok {
		return "", ""
	}
	return owner, repo
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
