package kb

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	confluencePageID = regexp.MustCompile(`/pages/(\d+)`)
	htmlTag          = regexp.MustCompile(`<[^>]*>`)
)

// Confluence reads pages from one Confluence site with basic auth.
type Confluence struct {
	base       *url.URL
	user       string
	token      string
	httpClient *http.Client
}

// NewConfluence creates a connector for the site at baseURL.
func NewConfluence(baseURL, user, token string, timeout time.Duration) (*Confluence, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid confluence url %q", baseURL)
	}
	return &Confluence{
		base:       base,
		user:       user,
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Confluence) Match(u *url.URL) bool {
	return strings.EqualFold(u.Host, c.base.Host)
}

func (c *Confluence) Fetch(ctx context.Context, u *url.URL) (Page, error) {
	id := u.Query().Get("pageId")
	if id == "" {
		if m := confluencePageID.FindStringSubmatch(u.Path); m != nil {
			id = m[1]
		}
	}
	if id == "" {
		return Page{}, fmt.Errorf("no confluence page id in %s", u)
	}

	var content struct {
		Title string `json:"title"`
		Body  struct {
			View struct {
				Value string `json:"value"`
			} `json:"view"`
		} `json:"body"`
	}
	endpoint := c.base.String() + "/rest/api/content/" + id + "?expand=body.view"
	if err := getJSON(ctx, c.httpClient, endpoint, c.auth, &content); err != nil {
		return Page{}, fmt.Errorf("confluence page %s: %w", id, err)
	}

	return Page{
		Title:   content.Title,
		Content: StripHTML(content.Body.View.Value),
	}, nil
}

func (c *Confluence) auth(req *http.Request) {
	req.SetBasicAuth(c.user, c.token)
}

// StripHTML drops tags and collapses whitespace.
func StripHTML(s string) string {
	s = html.UnescapeString(htmlTag.ReplaceAllString(s, " "))
	return strings.Join(strings.Fields(s), " ")
}
