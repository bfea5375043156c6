// Package git reads changes from a local repository and talks to the
// GitHub API for pull request reviews.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/lawndlwd/doc-drift/internal/diff"
	"github.com/lawndlwd/doc-drift/internal/types"
)

// LocalOptions configures how local git changes are extracted.
type LocalOptions struct {
	RepoPath     string
	TargetBranch string
	// IncludeStaged adds staged changes when comparing against HEAD.
	IncludeStaged bool
	// Local compares the work tree against TargetBranch instead of the
	// merge base with HEAD.
	Local bool
}

// LocalChanges returns one FileChange per changed file with its current
// content loaded. Deleted files are omitted.
func LocalChanges(ctx context.Context, opts LocalOptions) ([]types.FileChange, error) {
	repo := filepath.Clean(opts.RepoPath)

	args, contentRef, err := diffArgs(ctx, repo, opts)
	if err != nil {
		return nil, err
	}

	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("git diff: %w", err)
	}
	text := string(out)

	if mergesStaged(opts) {
		staged, err := exec.CommandContext(ctx, "git", "-C", repo, "diff", "--cached", "--no-color").Output()
		if err == nil {
			text = mergeDiffs(text, string(staged))
		}
	}

	files, err := diff.SplitUnified(text)
	if err != nil {
		return nil, err
	}

	for i := range files {
		content, err := diff.GetFileContent(repo, files[i].Filename, contentRef)
		if err != nil {
			return nil, err
		}
		files[i].Content = content
	}
	return files, nil
}

// diffArgs builds the git diff invocation and the ref whose content matches
// the new side of that diff.
func diffArgs(ctx context.Context, repo string, opts LocalOptions) ([]string, string, error) {
	base := []string{"-C", repo, "diff", "--no-color", "--no-ext-diff"}

	switch {
	case opts.Local && opts.TargetBranch != "":
		// work tree against the target branch
		return append(base, opts.TargetBranch), "", nil
	case opts.TargetBranch != "" && opts.TargetBranch != "HEAD":
		mergeBase, err := exec.CommandContext(ctx, "git", "-C", repo, "merge-base", opts.TargetBranch, "HEAD").Output()
		if err != nil {
			return nil, "", fmt.Errorf("git merge-base: %w", err)
		}
		baseCommit := strings.TrimSpace(string(mergeBase))
		return append(base, baseCommit, "HEAD"), "HEAD", nil
	default:
		return append(base, "HEAD"), "", nil
	}
}

// mergesStaged reports whether staged sections are merged in. Only the
// HEAD comparison reads content from the work tree, where staged line
// numbers still line up.
func mergesStaged(opts LocalOptions) bool {
	if !opts.IncludeStaged || opts.Local {
		return false
	}
	return opts.TargetBranch == "" || opts.TargetBranch == "HEAD"
}

// mergeDiffs appends the file sections of extra whose paths are not already
// present in text.
func mergeDiffs(text, extra string) string {
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			seen[line] = true
		}
	}

	var b strings.Builder
	b.WriteString(text)
	keep := false
	for _, line := range strings.Split(extra, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			keep = !seen[line]
		}
		if keep {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
