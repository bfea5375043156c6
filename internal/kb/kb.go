// Package kb fetches page titles and content from knowledge-base providers.
package kb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Page is the metadata a connector returns for a linked document.
type Page struct {
	Title   string
	Content string
}

// Connector resolves links that belong to one knowledge-base provider.
type Connector interface {
	Match(u *url.URL) bool
	Fetch(ctx context.Context, u *url.URL) (Page, error)
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, auth func(*http.Request), out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	auth(req)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("request failed: %s - %s", resp.Status, buf.String())
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
