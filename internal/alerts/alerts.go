// Package alerts turns drifted documentation links into review messages.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lawndlwd/doc-drift/internal/languages"
	"github.com/lawndlwd/doc-drift/internal/links"
	"github.com/lawndlwd/doc-drift/internal/parser"
	"github.com/lawndlwd/doc-drift/internal/types"
)

// Service computes alerts for changed files. It holds no per-request state.
type Service struct {
	parser      *parser.Parser
	resolver    *Resolver
	logger      *slog.Logger
	concurrency int
}

// NewService creates a Service. concurrency bounds the per-file and per-link
// fan-out; zero or less means unbounded.
func NewService(p *parser.Parser, r *Resolver, logger *slog.Logger, concurrency int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{parser: p, resolver: r, logger: logger, concurrency: concurrency}
}

// FileLinks extracts the drifted and new links of one file. Files in a
// language without a grammar yield no links.
func (s *Service) FileLinks(ctx context.Context, file types.FileChange) ([]types.Link, error) {
	lang := languages.Detect(file.Filename)
	if lang == "" || !s.parser.Supports(lang) {
		return nil, nil
	}

	content := s.parser.Format(file.Content, lang)
	tree, err := s.parser.Parse(ctx, content, lang)
	if err != nil {
		if errors.Is(err, parser.ErrUnsupportedLanguage) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse %s: %w", file.Filename, err)
	}

	return links.GetLinks(tree.Root, content, file.Changes, languages.Lookup(lang)), nil
}

// FileAlerts returns the alerts for drifted links and, separately, the
// links the diff introduced.
func (s *Service) FileAlerts(ctx context.Context, file types.FileChange) ([]types.Alert, []types.Link, error) {
	found, err := s.FileLinks(ctx, file)
	if err != nil {
		return nil, nil, err
	}

	var drifted, added []types.Link
	for _, l := range found {
		if l.Type == types.LinkNew {
			added = append(added, l)
		} else {
			drifted = append(drifted, l)
		}
	}

	alerts := make([]types.Alert, len(drifted))
	g, gCtx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, l := range drifted {
		g.Go(func() error {
			page, _ := s.resolver.Resolve(gCtx, l.URL)
			alerts[i] = types.Alert{
				Link:     l,
				Message:  Message(page.Title, l.URL, page.Content),
				Filename: file.Filename,
			}
			return nil
		})
	}
	_ = g.Wait()

	return alerts, added, nil
}

// Alerts computes alerts for every file concurrently. A file that fails
// contributes nothing; output follows input file order.
func (s *Service) Alerts(ctx context.Context, files []types.FileChange) []types.Alert {
	perFile := make([][]types.Alert, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, f := range files {
		g.Go(func() error {
			alerts, _, err := s.FileAlerts(gCtx, f)
			if err != nil {
				s.logger.Warn("alert extraction failed", "file", f.Filename, "error", err)
				return nil
			}
			perFile[i] = alerts
			return nil
		})
	}
	_ = g.Wait()

	out := make([]types.Alert, 0)
	for _, alerts := range perFile {
		out = append(out, alerts...)
	}
	return out
}

// NewLinks collects the links the diff introduced across all files, in
// input file order.
func (s *Service) NewLinks(ctx context.Context, files []types.FileChange) []types.Link {
	perFile := make([][]types.Link, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, f := range files {
		g.Go(func() error {
			found, err := s.FileLinks(gCtx, f)
			if err != nil {
				s.logger.Warn("link extraction failed", "file", f.Filename, "error", err)
				return nil
			}
			for _, l := range found {
				if l.Type == types.LinkNew {
					perFile[i] = append(perFile[i], l)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	var out []types.Link
	for _, l := range perFile {
		out = append(out, l...)
	}
	return out
}

// NewLinksMessage renders the digest of newly added links. ok is false when
// the diff added none.
func (s *Service) NewLinksMessage(ctx context.Context, files []types.FileChange) (string, bool) {
	added := s.NewLinks(ctx, files)
	if len(added) == 0 {
		return "", false
	}

	titles := make([]string, len(added))
	g, gCtx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, l := range added {
		g.Go(func() error {
			if page, ok := s.resolver.Resolve(gCtx, l.URL); ok {
				titles[i] = page.Title
			}
			return nil
		})
	}
	_ = g.Wait()

	var b strings.Builder
	b.WriteString("New documentation links detected:\n\n")
	for i, l := range added {
		title := titles[i]
		if title == "" {
			title = l.URL
		}
		fmt.Fprintf(&b, "- [%s](%s)\n", title, l.URL)
	}
	return strings.TrimSuffix(b.String(), "\n"), true
}
