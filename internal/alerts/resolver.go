package alerts

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/lawndlwd/doc-drift/internal/kb"
)

const maxTitleBody = 1 << 20

var titleTag = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// Resolver looks up a human readable title for a link target.
type Resolver struct {
	connectors []kb.Connector
	httpClient *http.Client
	logger     *slog.Logger
}

// NewResolver creates a Resolver. Connectors are consulted in order before
// falling back to the page's HTML title.
func NewResolver(timeout time.Duration, logger *slog.Logger, connectors ...kb.Connector) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		connectors: connectors,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Resolve returns the page behind rawURL. ok is false when no title could
// be found; failures are logged, never returned.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (page kb.Page, ok bool) {
	if strings.Contains(rawURL, "@") && !strings.Contains(rawURL, "/") {
		return kb.Page{}, false
	}

	u, err := url.Parse(withScheme(rawURL))
	if err != nil {
		r.logger.Warn("invalid link", "url", rawURL, "error", err)
		return kb.Page{}, false
	}

	for _, c := range r.connectors {
		if !c.Match(u) {
			continue
		}
		page, err := c.Fetch(ctx, u)
		if err != nil {
			r.logger.Warn("knowledge base lookup failed", "url", rawURL, "error", err)
			return kb.Page{}, false
		}
		return page, page.Title != ""
	}

	title, err := r.fetchTitle(ctx, u.String())
	if err != nil {
		r.logger.Debug("title fetch failed", "url", rawURL, "error", err)
		return kb.Page{}, false
	}
	return kb.Page{Title: title}, title != ""
}

func (r *Resolver) fetchTitle(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: %s", target, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTitleBody))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	m := titleTag.FindSubmatch(body)
	if m == nil {
		return "", nil
	}
	return strings.Join(strings.Fields(html.UnescapeString(string(m[1]))), " "), nil
}

func withScheme(raw string) string {
	if strings.Contains(raw, "://") {
		return raw
	}
	return "https://" + raw
}
