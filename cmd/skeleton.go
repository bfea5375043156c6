package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lawndlwd/doc-drift/internal/git"
	"github.com/lawndlwd/doc-drift/internal/output"
	"github.com/lawndlwd/doc-drift/internal/skeleton"
	"github.com/lawndlwd/doc-drift/internal/sources"
	"github.com/lawndlwd/doc-drift/internal/types"
)

type skeletonOptions struct {
	projectPath string
	sourcePath  string
	docsDir     string
	repo        skeleton.RepoRef
	commit      bool
	message     string
}

func newSkeletonCmd(a *app) *cobra.Command {
	opts := &skeletonOptions{}

	cmd := &cobra.Command{
		Use:   "skeleton",
		Short: "Generate and sync GitBook pages from source declarations",
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.projectPath, "project-path", ".", "Repository root")
	pf.StringVar(&opts.sourcePath, "path", "", "File or directory to document, relative to the project (default: project root)")
	pf.StringVar(&opts.docsDir, "docs-dir", "docs", "Directory of the GitBook pages, relative to the project")
	pf.StringVar(&opts.repo.Owner, "owner", "", "Repository owner used in source links")
	pf.StringVar(&opts.repo.Repo, "repo", "", "Repository name used in source links")
	pf.StringVar(&opts.repo.Branch, "branch", "main", "Branch used in source links and commits")
	pf.BoolVar(&opts.commit, "commit", false, "Commit the files to the branch through the GitHub API instead of writing them")
	pf.StringVar(&opts.message, "message", "docs: sync code skeleton", "Commit message")
	_ = cmd.MarkPersistentFlagRequired("owner")
	_ = cmd.MarkPersistentFlagRequired("repo")

	var mdToCode bool
	install := &cobra.Command{
		Use:   "install",
		Short: "Create a page per source file and register it in SUMMARY.md",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := opts.load()
			if err != nil {
				return err
			}
			syncer := skeleton.NewSyncer(a.parser, a.logger)
			out := syncer.Install(cmd.Context(), files, opts.repo, opts.readDoc(skeleton.SummaryFile))
			return opts.emit(cmd, a, opts.docs(out))
		},
	}

	update := &cobra.Command{
		Use:   "update",
		Short: "Sync existing pages with their source files",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := opts.load()
			if err != nil {
				return err
			}

			var pairs []skeleton.FilePair
			var fresh []types.CodeFile
			for _, f := range files {
				page := skeleton.MarkdownPath(f.Filename)
				md, ok := opts.readPage(page)
				if !ok {
					fresh = append(fresh, f)
					continue
				}
				pairs = append(pairs, skeleton.FilePair{MD: types.CodeFile{Filename: page, Content: md}, Code: f})
			}

			syncer := skeleton.NewSyncer(a.parser, a.logger)
			out := syncer.Update(cmd.Context(), pairs, mdToCode, fresh, opts.repo, opts.readDoc(skeleton.SummaryFile))
			if !mdToCode {
				out = opts.docs(out)
			}
			return opts.emit(cmd, a, out)
		},
	}
	update.Flags().BoolVar(&mdToCode, "md-to-code", false, "Rewrite doc comments in the source from the pages")

	cmd.AddCommand(install, update)
	return cmd
}

func (o *skeletonOptions) load() ([]types.CodeFile, error) {
	src := filepath.Join(o.projectPath, o.sourcePath)
	return sources.Load(o.projectPath, src)
}

// readPage returns the page content and whether it exists.
func (o *skeletonOptions) readPage(name string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(o.projectPath, o.docsDir, filepath.FromSlash(name)))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (o *skeletonOptions) readDoc(name string) string {
	content, _ := o.readPage(name)
	return content
}

// docs moves page filenames under the docs directory.
func (o *skeletonOptions) docs(files []types.CodeFile) []types.CodeFile {
	out := make([]types.CodeFile, len(files))
	for i, f := range files {
		out[i] = types.CodeFile{Filename: path.Join(filepath.ToSlash(o.docsDir), f.Filename), Content: f.Content}
	}
	return out
}

func (o *skeletonOptions) emit(cmd *cobra.Command, a *app, files []types.CodeFile) error {
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to update.")
		return nil
	}

	if o.commit {
		gh, err := git.NewGitHub(cmd.Context(), a.cfg.GitHubToken, o.repo.Owner, o.repo.Repo, a.cfg.GitHubURL, a.logger)
		if err != nil {
			return err
		}
		sha, err := gh.CommitFiles(cmd.Context(), o.repo.Branch, o.message, files)
		if err != nil {
			return err
		}
		output.PrintFiles(cmd.OutOrStdout(), files)
		fmt.Fprintf(cmd.OutOrStdout(), "committed %s to %s\n", sha, o.repo.Branch)
		return nil
	}

	for _, f := range files {
		target := filepath.Join(o.projectPath, filepath.FromSlash(f.Filename))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
	}
	output.PrintFiles(cmd.OutOrStdout(), files)
	return nil
}
