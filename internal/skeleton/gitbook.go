package skeleton

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lawndlwd/doc-drift/internal/languages"
	"github.com/lawndlwd/doc-drift/internal/parser"
	"github.com/lawndlwd/doc-drift/internal/types"
)

// SummaryFile is the GitBook table of contents.
const SummaryFile = "SUMMARY.md"

// RepoRef identifies the branch source links point at.
type RepoRef struct {
	Owner  string
	Repo   string
	Branch string
}

// SourceURL links to lines of filename on the branch.
func (r RepoRef) SourceURL(filename string, lr types.LineRange) string {
	branch := r.Branch
	if branch == "" {
		branch = "main"
	}
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s#L%d-L%d", r.Owner, r.Repo, branch, escapePath(filename), lr.Start, lr.End)
}

// escapePath escapes each segment so the URL stays a valid markdown link
// target.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// FilePair couples a generated markdown page with its source file.
type FilePair struct {
	MD   types.CodeFile `json:"md" binding:"required"`
	Code types.CodeFile `json:"code" binding:"required"`
}

// MarkdownPath is where the page for filename lives.
func MarkdownPath(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename)) + ".md"
}

// Syncer extracts skeletons through the parser and produces updated files.
type Syncer struct {
	parser *parser.Parser
	logger *slog.Logger
}

func NewSyncer(p *parser.Parser, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{parser: p, logger: logger}
}

// FileSkeleton extracts the skeleton of file with source links filled in.
// ok is false for languages without skeleton support or unparseable files.
func (s *Syncer) FileSkeleton(ctx context.Context, file types.CodeFile, repo RepoRef) (types.FileSkeleton, bool) {
	lang := languages.Detect(file.Filename)
	adapter, ok := languages.Lookup(lang).(languages.SkeletonAdapter)
	if !ok {
		return types.FileSkeleton{}, false
	}

	tree, err := s.parser.Parse(ctx, s.parser.Format(file.Content, lang), lang)
	if err != nil {
		s.logger.Warn("skeleton extraction failed", "file", file.Filename, "error", err)
		return types.FileSkeleton{}, false
	}

	fs := adapter.FileSkeleton(tree.Root)
	fs.Filename = file.Filename
	for i := range fs.Skeletons {
		fs.Skeletons[i].URL = repo.SourceURL(file.Filename, fs.Skeletons[i].LineRange)
	}
	return fs, true
}

// Install renders a page per supported source file and returns them with
// the updated summary last.
func (s *Syncer) Install(ctx context.Context, files []types.CodeFile, repo RepoRef, summary string) []types.CodeFile {
	pages := s.pages(ctx, files, repo)

	out := make([]types.CodeFile, 0, len(pages)+1)
	for _, p := range pages {
		if p != nil {
			out = append(out, *p)
			summary = AddToSummary(summary, p.Filename)
		}
	}
	return append(out, types.CodeFile{Filename: SummaryFile, Content: summary})
}

// Update syncs each pair in one direction. With mdToCode the source files
// are rewritten from the markdown; otherwise the markdown is rewritten from
// the source and pages for newFiles are added along with the summary.
func (s *Syncer) Update(ctx context.Context, pairs []FilePair, mdToCode bool, newFiles []types.CodeFile, repo RepoRef, summary string) []types.CodeFile {
	updated := make([]*types.CodeFile, len(pairs))

	g, gCtx := errgroup.WithContext(ctx)
	for i, pair := range pairs {
		g.Go(func() error {
			codeFS, ok := s.FileSkeleton(gCtx, pair.Code, repo)
			if !ok {
				return nil
			}
			mdFS := FromMarkdown(pair.MD.Content)
			if mdToCode {
				updated[i] = &types.CodeFile{Filename: pair.Code.Filename, Content: UpdateCode(pair.Code.Content, codeFS, mdFS)}
			} else {
				updated[i] = &types.CodeFile{Filename: pair.MD.Filename, Content: UpdateMarkdown(pair.MD.Content, codeFS, mdFS)}
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]types.CodeFile, 0, len(pairs))
	for _, f := range updated {
		if f != nil {
			out = append(out, *f)
		}
	}
	if mdToCode {
		return out
	}

	if len(newFiles) > 0 {
		out = append(out, s.Install(ctx, newFiles, repo, summary)...)
	}
	return out
}

func (s *Syncer) pages(ctx context.Context, files []types.CodeFile, repo RepoRef) []*types.CodeFile {
	pages := make([]*types.CodeFile, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			fs, ok := s.FileSkeleton(gCtx, f, repo)
			if !ok {
				return nil
			}
			pages[i] = &types.CodeFile{Filename: MarkdownPath(f.Filename), Content: ToMarkdown(fs)}
			return nil
		})
	}
	_ = g.Wait()
	return pages
}

// AddToSummary appends an entry for page unless the summary links it already.
func AddToSummary(summary, page string) string {
	if strings.Contains(summary, "("+page+")") {
		return summary
	}
	if strings.TrimSpace(summary) == "" {
		summary = "# Table of contents\n\n"
	} else if !strings.HasSuffix(summary, "\n") {
		summary += "\n"
	}
	return summary + "* [" + strings.TrimSuffix(page, ".md") + "](" + page + ")\n"
}
