package git

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/lawndlwd/doc-drift/internal/types"
)

// Check run conclusions used by the review bot.
const (
	ConclusionSuccess        = "success"
	ConclusionActionRequired = "action_required"
)

// PRFile is one file of a pull request diff.
type PRFile struct {
	Filename string
	Status   string
	Patch    string
}

// AnchoredAlert is an alert with the diff span its review comment covers.
type AnchoredAlert struct {
	types.Alert
	Range types.RangeWithSide
}

// GitHub wraps the REST calls the review bot and skeleton sync need for
// one repository.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
	logger *slog.Logger
}

// NewGitHub creates a client authenticated with a static token. baseURL
// overrides the API endpoint for GitHub Enterprise.
func NewGitHub(ctx context.Context, token, owner, repo, baseURL string, logger *slog.Logger) (*GitHub, error) {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(ctx, ts)
	}
	client := github.NewClient(hc)

	if baseURL != "" {
		u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse github url: %w", err)
		}
		client.BaseURL = u
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GitHub{client: client, owner: owner, repo: repo, logger: logger}, nil
}

// HeadSHA returns the head commit of a pull request.
func (g *GitHub) HeadSHA(ctx context.Context, prNumber int) (string, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, g.owner, g.repo, prNumber)
	if err != nil {
		return "", fmt.Errorf("get pull request %d: %w", prNumber, err)
	}
	return pr.GetHead().GetSHA(), nil
}

// PullRequestFiles lists every file of a pull request.
func (g *GitHub) PullRequestFiles(ctx context.Context, prNumber int) ([]PRFile, error) {
	var out []PRFile
	opts := &github.ListOptions{PerPage: 100}
	for {
		files, resp, err := g.client.PullRequests.ListFiles(ctx, g.owner, g.repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("list files of pull request %d: %w", prNumber, err)
		}
		for _, f := range files {
			out = append(out, PRFile{Filename: f.GetFilename(), Status: f.GetStatus(), Patch: f.GetPatch()})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// FileContent returns the decoded content of path at ref.
func (g *GitHub) FileContent(ctx context.Context, path, ref string) (string, error) {
	fc, _, _, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, path, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return "", fmt.Errorf("get %s@%s: %w", path, ref, err)
	}
	if fc == nil {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return fc.GetContent()
}

// ReviewComments lists the review comments already on a pull request.
func (g *GitHub) ReviewComments(ctx context.Context, prNumber int) ([]types.ReviewComment, error) {
	var out []types.ReviewComment
	opts := &github.PullRequestListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		comments, resp, err := g.client.PullRequests.ListComments(ctx, g.owner, g.repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("list review comments of pull request %d: %w", prNumber, err)
		}
		for _, c := range comments {
			out = append(out, types.ReviewComment{Body: c.GetBody(), Path: c.GetPath()})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// CreateReview posts all alerts as one review. Alerts whose range did not
// land on the diff are skipped.
func (g *GitHub) CreateReview(ctx context.Context, prNumber int, commitSHA string, alerts []AnchoredAlert) (int, error) {
	var comments []*github.DraftReviewComment
	for _, a := range alerts {
		if a.Range.End.Line == 0 {
			g.logger.Debug("alert outside diff", "file", a.Filename, "url", a.URL)
			continue
		}
		c := &github.DraftReviewComment{
			Path: github.Ptr(a.Filename),
			Body: github.Ptr(a.Message),
			Line: github.Ptr(a.Range.End.Line),
			Side: github.Ptr(string(a.Range.End.Side)),
		}
		if a.Range.Start.Line > 0 && a.Range.Start.Line < a.Range.End.Line {
			c.StartLine = github.Ptr(a.Range.Start.Line)
			c.StartSide = github.Ptr(string(a.Range.Start.Side))
		}
		comments = append(comments, c)
	}
	if len(comments) == 0 {
		return 0, nil
	}

	review := &github.PullRequestReviewRequest{
		CommitID: github.Ptr(commitSHA),
		Event:    github.Ptr("COMMENT"),
		Comments: comments,
	}
	if _, _, err := g.client.PullRequests.CreateReview(ctx, g.owner, g.repo, prNumber, review); err != nil {
		return 0, fmt.Errorf("create review on pull request %d: %w", prNumber, err)
	}
	return len(comments), nil
}

// StartCheckRun creates an in-progress check run on headSHA.
func (g *GitHub) StartCheckRun(ctx context.Context, name, headSHA string) (int64, error) {
	run, _, err := g.client.Checks.CreateCheckRun(ctx, g.owner, g.repo, github.CreateCheckRunOptions{
		Name:    name,
		HeadSHA: headSHA,
		Status:  github.Ptr("in_progress"),
	})
	if err != nil {
		return 0, fmt.Errorf("create check run: %w", err)
	}
	return run.GetID(), nil
}

// CompleteCheckRun sets the conclusion of a check run. action_required
// conclusions need a details URL.
func (g *GitHub) CompleteCheckRun(ctx context.Context, id int64, name, conclusion, title, summary, detailsURL string) error {
	opts := github.UpdateCheckRunOptions{
		Name:       name,
		Status:     github.Ptr("completed"),
		Conclusion: github.Ptr(conclusion),
		Output: &github.CheckRunOutput{
			Title:   github.Ptr(title),
			Summary: github.Ptr(summary),
		},
	}
	if detailsURL != "" {
		opts.DetailsURL = github.Ptr(detailsURL)
	}
	if _, _, err := g.client.Checks.UpdateCheckRun(ctx, g.owner, g.repo, id, opts); err != nil {
		return fmt.Errorf("update check run %d: %w", id, err)
	}
	return nil
}

// Comment posts a pull request conversation comment.
func (g *GitHub) Comment(ctx context.Context, prNumber int, body string) error {
	if _, _, err := g.client.Issues.CreateComment(ctx, g.owner, g.repo, prNumber, &github.IssueComment{Body: github.Ptr(body)}); err != nil {
		return fmt.Errorf("comment on pull request %d: %w", prNumber, err)
	}
	return nil
}

// CommitFiles writes files to branch as a single commit and returns its SHA.
func (g *GitHub) CommitFiles(ctx context.Context, branch, message string, files []types.CodeFile) (string, error) {
	ref, _, err := g.client.Git.GetRef(ctx, g.owner, g.repo, "heads/"+branch)
	if err != nil {
		return "", fmt.Errorf("get ref %s: %w", branch, err)
	}
	parentSHA := ref.GetObject().GetSHA()

	parent, _, err := g.client.Git.GetCommit(ctx, g.owner, g.repo, parentSHA)
	if err != nil {
		return "", fmt.Errorf("get commit %s: %w", parentSHA, err)
	}

	entries := make([]*github.TreeEntry, 0, len(files))
	for _, f := range files {
		blob, _, err := g.client.Git.CreateBlob(ctx, g.owner, g.repo, &github.Blob{
			Content:  github.Ptr(f.Content),
			Encoding: github.Ptr("utf-8"),
		})
		if err != nil {
			return "", fmt.Errorf("create blob for %s: %w", f.Filename, err)
		}
		entries = append(entries, &github.TreeEntry{
			Path: github.Ptr(f.Filename),
			Mode: github.Ptr("100644"),
			Type: github.Ptr("blob"),
			SHA:  blob.SHA,
		})
	}

	tree, _, err := g.client.Git.CreateTree(ctx, g.owner, g.repo, parent.GetTree().GetSHA(), entries)
	if err != nil {
		return "", fmt.Errorf("create tree: %w", err)
	}

	commit, _, err := g.client.Git.CreateCommit(ctx, g.owner, g.repo, &github.Commit{
		Message: github.Ptr(message),
		Tree:    &github.Tree{SHA: tree.SHA},
		Parents: []*github.Commit{{SHA: github.Ptr(parentSHA)}},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("create commit: %w", err)
	}

	ref.Object.SHA = commit.SHA
	if _, _, err := g.client.Git.UpdateRef(ctx, g.owner, g.repo, ref, false); err != nil {
		return "", fmt.Errorf("update ref %s: %w", branch, err)
	}
	return commit.GetSHA(), nil
}
