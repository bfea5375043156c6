// Package review runs drift detection on a pull request and reports the
// result through reviews, comments and check runs.
package review

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lawndlwd/doc-drift/internal/alerts"
	"github.com/lawndlwd/doc-drift/internal/diff"
	"github.com/lawndlwd/doc-drift/internal/filter"
	"github.com/lawndlwd/doc-drift/internal/git"
	"github.com/lawndlwd/doc-drift/internal/types"
)

// CheckName is the name of the check run on the head commit.
const CheckName = "doc-drift"

// Host is the subset of the hosting API the reviewer uses.
type Host interface {
	HeadSHA(ctx context.Context, prNumber int) (string, error)
	PullRequestFiles(ctx context.Context, prNumber int) ([]git.PRFile, error)
	FileContent(ctx context.Context, path, ref string) (string, error)
	ReviewComments(ctx context.Context, prNumber int) ([]types.ReviewComment, error)
	CreateReview(ctx context.Context, prNumber int, commitSHA string, alerts []git.AnchoredAlert) (int, error)
	StartCheckRun(ctx context.Context, name, headSHA string) (int64, error)
	CompleteCheckRun(ctx context.Context, id int64, name, conclusion, title, summary, detailsURL string) error
	Comment(ctx context.Context, prNumber int, body string) error
}

// Result summarises one run.
type Result struct {
	Files      int
	Alerts     []types.Alert
	NewAlerts  []types.Alert
	Posted     int
	// Unanchored counts new alerts whose code has no multi-line span in the
	// visible diff. They are not posted as review comments.
	Unanchored int
	NewLinks   string
	Conclusion string
}

// Reviewer wires the alert service to a hosting API.
type Reviewer struct {
	host       Host
	alerts     *alerts.Service
	logger     *slog.Logger
	detailsURL string
	limit      int
}

func NewReviewer(host Host, svc *alerts.Service, logger *slog.Logger, detailsURL string, limit int) *Reviewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reviewer{host: host, alerts: svc, logger: logger, detailsURL: detailsURL, limit: limit}
}

// Run reviews one pull request. Check run failures are logged; the run
// itself only fails when the pull request cannot be read.
func (r *Reviewer) Run(ctx context.Context, prNumber int) (Result, error) {
	logger := r.logger.With("pr", prNumber)

	headSHA, err := r.host.HeadSHA(ctx, prNumber)
	if err != nil {
		return Result{}, err
	}

	checkID, err := r.host.StartCheckRun(ctx, CheckName, headSHA)
	if err != nil {
		logger.Warn("check run not started", "error", err)
	}

	files, err := r.changedFiles(ctx, prNumber, headSHA)
	if err != nil {
		return Result{}, err
	}
	logger.Info("scanning files", "count", len(files))

	result := Result{Files: len(files)}
	result.Alerts = r.alerts.Alerts(ctx, files)

	existing, err := r.host.ReviewComments(ctx, prNumber)
	if err != nil {
		logger.Warn("existing comments unavailable", "error", err)
	}
	result.NewAlerts = alerts.NewAlerts(result.Alerts, existing)

	patches := make(map[string][]types.PatchLineRange, len(files))
	for _, f := range files {
		patches[f.Filename] = f.PatchLineRanges
	}
	anchored := make([]git.AnchoredAlert, 0, len(result.NewAlerts))
	for _, a := range result.NewAlerts {
		rng := diff.GetEncompassingRangeAndSideForAlert(patches[a.Filename], a.LineRange)
		if rng.End.Line == 0 {
			result.Unanchored++
		}
		anchored = append(anchored, git.AnchoredAlert{Alert: a, Range: rng})
	}

	result.Posted, err = r.host.CreateReview(ctx, prNumber, headSHA, anchored)
	if err != nil {
		logger.Error("review not posted", "error", err)
	}

	if msg, ok := r.alerts.NewLinksMessage(ctx, files); ok {
		result.NewLinks = msg
		if err := r.host.Comment(ctx, prNumber, msg); err != nil {
			logger.Error("new links comment not posted", "error", err)
		}
	}

	result.Conclusion = git.ConclusionSuccess
	title := "Documentation is up to date"
	if len(result.Alerts) > 0 {
		result.Conclusion = git.ConclusionActionRequired
		title = fmt.Sprintf("%d document(s) may need an update", len(result.Alerts))
	}
	if checkID != 0 {
		summary := fmt.Sprintf("Scanned %d file(s), %d alert(s), %d new, %d alert(s) outside the visible diff.",
			result.Files, len(result.Alerts), len(result.NewAlerts), result.Unanchored)
		if err := r.host.CompleteCheckRun(ctx, checkID, CheckName, result.Conclusion, title, summary, r.detailsURL); err != nil {
			logger.Warn("check run not completed", "error", err)
		}
	}

	logger.Info("review finished", "alerts", len(result.Alerts), "new", len(result.NewAlerts), "posted", result.Posted, "unanchored", result.Unanchored)
	return result, nil
}

// changedFiles loads content and parsed patches for the eligible files.
// A file whose content cannot be fetched is skipped.
func (r *Reviewer) changedFiles(ctx context.Context, prNumber int, headSHA string) ([]types.FileChange, error) {
	prFiles, err := r.host.PullRequestFiles(ctx, prNumber)
	if err != nil {
		return nil, err
	}

	var eligible []git.PRFile
	for _, f := range prFiles {
		if f.Status == "removed" || !filter.Eligible(f.Filename) {
			continue
		}
		eligible = append(eligible, f)
		if r.limit > 0 && len(eligible) >= r.limit {
			break
		}
	}

	loaded := make([]*types.FileChange, len(eligible))
	g, gCtx := errgroup.WithContext(ctx)
	for i, f := range eligible {
		g.Go(func() error {
			content, err := r.host.FileContent(gCtx, f.Filename, headSHA)
			if err != nil {
				r.logger.Warn("file content unavailable", "file", f.Filename, "error", err)
				return nil
			}
			patch := diff.ParsePatch(f.Patch)
			loaded[i] = &types.FileChange{
				Filename:        f.Filename,
				Content:         content,
				Changes:         patch.Changes,
				Patch:           f.Patch,
				PatchLineRanges: patch.PatchLineRanges,
			}
			return nil
		})
	}
	_ = g.Wait()

	files := make([]types.FileChange, 0, len(loaded))
	for _, f := range loaded {
		if f != nil {
			files = append(files, *f)
		}
	}
	return files, nil
}
