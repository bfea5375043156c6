package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lawndlwd/doc-drift/internal/alerts"
	"github.com/lawndlwd/doc-drift/internal/config"
	"github.com/lawndlwd/doc-drift/internal/filter"
	"github.com/lawndlwd/doc-drift/internal/git"
	"github.com/lawndlwd/doc-drift/internal/output"
	"github.com/lawndlwd/doc-drift/internal/parser"
	"github.com/lawndlwd/doc-drift/internal/server"
	"github.com/lawndlwd/doc-drift/internal/skeleton"
)

var errDrift = errors.New("documentation drift detected")

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	parser *parser.Parser
}

func (a *app) alertService() *alerts.Service {
	resolver := alerts.NewResolver(a.cfg.HTTPTimeout, a.logger, a.cfg.Connectors(a.logger)...)
	return alerts.NewService(a.parser, resolver, a.logger, a.cfg.Concurrency)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errDrift) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "doc-drift",
		Short:         "Detect documentation links that drifted from the code they annotate",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			a.logger = a.cfg.Logger(os.Stderr)
			slog.SetDefault(a.logger)
			a.parser = parser.New()
			return nil
		},
	}
	a.cfg = config.Register(root.PersistentFlags())

	root.AddCommand(newCheckCmd(a), newServeCmd(a), newSkeletonCmd(a))
	return root
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		opts  git.LocalOptions
		limit int
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report drifted documentation links in local changes",
		Example: "  doc-drift check --project-path ../project --target-branch origin/main\n" +
			"  doc-drift check --local --target-branch origin/main",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			files, err := git.LocalChanges(ctx, opts)
			if err != nil {
				return err
			}
			a.logger.Info("changed files", "count", len(files))

			files = filter.FilterEligible(files, limit)
			a.logger.Info("eligible files", "count", len(files))

			svc := a.alertService()
			found := svc.Alerts(ctx, files)
			output.PrintAlerts(cmd.OutOrStdout(), found)

			if msg, ok := svc.NewLinksMessage(ctx, files); ok {
				fmt.Fprint(cmd.OutOrStdout(), output.RenderDigest(msg))
			}

			if len(found) > 0 {
				return errDrift
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.RepoPath, "project-path", ".", "Path to the repository")
	fs.StringVar(&opts.TargetBranch, "target-branch", config.Env("HEAD", "TARGET_BRANCH"), "Base branch for local diffs")
	fs.BoolVar(&opts.IncludeStaged, "staged", config.EnvBool("INCLUDE_STAGED", true), "Include staged changes")
	fs.BoolVar(&opts.Local, "local", config.EnvBool("LOCAL", false), "Compare the work tree to target-branch")
	fs.IntVar(&limit, "limit", 0, "Maximum number of files to scan (0 = no limit)")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(a.alertService(), skeleton.NewSyncer(a.parser, a.logger), a.logger)
			return srv.ListenAndServe(cmd.Context(), a.cfg.Addr)
		},
	}
}
