package kb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const notionVersion = "2022-06-28"

var notionID = regexp.MustCompile(`[0-9a-f]{32}$`)

// Notion reads page titles and the first paragraphs of a page.
type Notion struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewNotion creates a Notion connector. baseURL defaults to the public API.
func NewNotion(token, baseURL string, timeout time.Duration) *Notion {
	if baseURL == "" {
		baseURL = "https://api.notion.com"
	}
	return &Notion{
		token:      strings.TrimSpace(token),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (n *Notion) Match(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	return host == "notion.so" || strings.HasSuffix(host, ".notion.so") || strings.HasSuffix(host, ".notion.site")
}

func (n *Notion) Fetch(ctx context.Context, u *url.URL) (Page, error) {
	id := NotionPageID(u)
	if id == "" {
		return Page{}, fmt.Errorf("no notion page id in %s", u)
	}

	var page struct {
		Properties map[string]struct {
			Type  string     `json:"type"`
			Title []richText `json:"title"`
		} `json:"properties"`
	}
	if err := getJSON(ctx, n.httpClient, n.baseURL+"/v1/pages/"+id, n.auth, &page); err != nil {
		return Page{}, fmt.Errorf("notion page %s: %w", id, err)
	}

	var result Page
	for _, p := range page.Properties {
		if p.Type == "title" {
			result.Title = plainText(p.Title)
			break
		}
	}

	var children struct {
		Results []struct {
			Type      string `json:"type"`
			Paragraph struct {
				RichText []richText `json:"rich_text"`
			} `json:"paragraph"`
		} `json:"results"`
	}
	if err := getJSON(ctx, n.httpClient, n.baseURL+"/v1/blocks/"+id+"/children?page_size=10", n.auth, &children); err == nil {
		var parts []string
		for _, b := range children.Results {
			if b.Type != "paragraph" {
				continue
			}
			if text := plainText(b.Paragraph.RichText); text != "" {
				parts = append(parts, text)
			}
		}
		result.Content = strings.Join(parts, "\n")
	}

	return result, nil
}

func (n *Notion) auth(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Notion-Version", notionVersion)
}

// NotionPageID extracts the dashed page id from a Notion URL, preferring a
// block anchor when present.
func NotionPageID(u *url.URL) string {
	candidates := []string{u.Fragment, u.Path}
	for _, c := range candidates {
		c = strings.ToLower(strings.ReplaceAll(c, "-", ""))
		if m := notionID.FindString(c); m != "" {
			return m[0:8] + "-" + m[8:12] + "-" + m[12:16] + "-" + m[16:20] + "-" + m[20:]
		}
	}
	return ""
}

type richText struct {
	PlainText string `json:"plain_text"`
}

func plainText(parts []richText) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.PlainText)
	}
	return strings.TrimSpace(b.String())
}
