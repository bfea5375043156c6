package alerts

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawndlwd/doc-drift/internal/kb"
	"github.com/lawndlwd/doc-drift/internal/parser"
	"github.com/lawndlwd/doc-drift/internal/types"
)

func titleServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/guide":
			_, _ = w.Write([]byte("<html><head><title>\n  Setup &amp; Guide\n</title></head></html>"))
		case "/untitled":
			_, _ = w.Write([]byte("<html><body>no title</body></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newService(connectors ...kb.Connector) *Service {
	return NewService(parser.New(), NewResolver(time.Second, nil, connectors...), nil, 4)
}

func source(base string) string {
	return fmt.Sprintf(`const a = 1;

// see %[1]s/guide
function add(a: number, b: number) {
  return a + b;
}

// %[1]s/missing
function sub(a: number, b: number) {
  return a - b;
}
`, base)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Does [Guide](https://x.io) need to be updated?", Message("Guide", "https://x.io", ""))
	assert.Equal(t, "Does [this document](https://x.io) need to be updated?", Message("", "https://x.io", ""))
	assert.Equal(t, "Does [G](u) need to be updated?\n\n> line one line two", Message("G", "u", "line one\nline two"))

	long := strings.Repeat("a", 300)
	msg := Message("G", "u", long)
	assert.True(t, strings.HasSuffix(msg, strings.Repeat("a", 280)+"…"))
}

func TestResolver_HTMLTitle(t *testing.T) {
	srv := titleServer(t)
	r := NewResolver(time.Second, nil)

	page, ok := r.Resolve(context.Background(), srv.URL+"/guide")
	assert.True(t, ok)
	assert.Equal(t, "Setup & Guide", page.Title)

	_, ok = r.Resolve(context.Background(), srv.URL+"/untitled")
	assert.False(t, ok)

	_, ok = r.Resolve(context.Background(), srv.URL+"/missing")
	assert.False(t, ok)

	_, ok = r.Resolve(context.Background(), "someone@example.com")
	assert.False(t, ok)
}

type stubConnector struct {
	host string
	page kb.Page
	err  error
}

func (s stubConnector) Match(u *url.URL) bool { return u.Hostname() == s.host }

func (s stubConnector) Fetch(context.Context, *url.URL) (kb.Page, error) { return s.page, s.err }

func TestResolver_ConnectorFirst(t *testing.T) {
	r := NewResolver(time.Second, nil,
		stubConnector{host: "wiki.example.com", page: kb.Page{Title: "Runbook", Content: "Restart it."}},
	)

	page, ok := r.Resolve(context.Background(), "wiki.example.com/pages/1")
	assert.True(t, ok)
	assert.Equal(t, kb.Page{Title: "Runbook", Content: "Restart it."}, page)
}

func TestResolver_ConnectorFailureFallsBackToDefault(t *testing.T) {
	r := NewResolver(time.Second, nil, stubConnector{host: "wiki.example.com", err: fmt.Errorf("denied")})

	_, ok := r.Resolve(context.Background(), "https://wiki.example.com/pages/1")
	assert.False(t, ok)
}

func TestFileAlerts(t *testing.T) {
	srv := titleServer(t)
	s := newService()

	file := types.FileChange{
		Filename: "src/math.ts",
		Content:  source(srv.URL),
		Changes: []types.Change{
			{Type: types.ChangeAdd, Line: 5, Content: "  return a + b;"},
			{Type: types.ChangeAdd, Line: 11, Content: "  return a - b;"},
		},
	}

	alerts, added, err := s.FileAlerts(context.Background(), file)
	require.NoError(t, err)
	assert.Empty(t, added)
	require.Len(t, alerts, 2)

	assert.Equal(t, "src/math.ts", alerts[0].Filename)
	assert.Equal(t, types.LinkLines, alerts[0].Type)
	assert.Equal(t, types.LineRange{Start: 4, End: 6}, alerts[0].LineRange)
	assert.Equal(t, fmt.Sprintf("Does [Setup & Guide](%s/guide) need to be updated?", srv.URL), alerts[0].Message)

	assert.Equal(t, fmt.Sprintf("Does [this document](%s/missing) need to be updated?", srv.URL), alerts[1].Message)
}

func TestFileAlerts_UnsupportedLanguage(t *testing.T) {
	alerts, added, err := newService().FileAlerts(context.Background(), types.FileChange{
		Filename: "notes.rb",
		Content:  "# https://x.io\nputs 1\n",
		Changes:  []types.Change{{Type: types.ChangeAdd, Line: 2}},
	})
	require.NoError(t, err)
	assert.Empty(t, alerts)
	assert.Empty(t, added)
}

func TestAlerts_OrderAndIsolation(t *testing.T) {
	srv := titleServer(t)
	s := newService()
	content := source(srv.URL)

	files := []types.FileChange{
		{Filename: "b.ts", Content: content, Changes: []types.Change{{Type: types.ChangeAdd, Line: 11}}},
		{Filename: "README.md", Content: "# readme", Changes: []types.Change{{Type: types.ChangeAdd, Line: 1}}},
		{Filename: "a.ts", Content: content, Changes: []types.Change{{Type: types.ChangeAdd, Line: 5}}},
	}

	alerts := s.Alerts(context.Background(), files)

	require.Len(t, alerts, 2)
	assert.Equal(t, "b.ts", alerts[0].Filename)
	assert.Equal(t, srv.URL+"/missing", alerts[0].URL)
	assert.Equal(t, "a.ts", alerts[1].Filename)
	assert.Equal(t, srv.URL+"/guide", alerts[1].URL)
}

func TestAlerts_Empty(t *testing.T) {
	alerts := newService().Alerts(context.Background(), nil)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestNewLinksMessage(t *testing.T) {
	srv := titleServer(t)
	s := newService()

	files := []types.FileChange{{
		Filename: "src/math.ts",
		Content:  source(srv.URL),
		Changes: []types.Change{
			{Type: types.ChangeAdd, Line: 3},
			{Type: types.ChangeAdd, Line: 8},
		},
	}}

	msg, ok := s.NewLinksMessage(context.Background(), files)
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("New documentation links detected:\n\n- [Setup & Guide](%[1]s/guide)\n- [%[1]s/missing](%[1]s/missing)", srv.URL), msg)
}

func TestNewLinksMessage_None(t *testing.T) {
	_, ok := newService().NewLinksMessage(context.Background(), []types.FileChange{{Filename: "a.ts", Content: "const a = 1;"}})
	assert.False(t, ok)
}

func TestNewAlerts(t *testing.T) {
	alerts := []types.Alert{
		{Message: "Does [A](a) need to be updated?", Filename: "x.ts"},
		{Message: "Does [B](b) need to be updated?", Filename: "x.ts"},
		{Message: "Does [A](a) need to be updated?", Filename: "y.ts"},
	}
	existing := []types.ReviewComment{
		{Body: "Does [A](a) need to be updated?", Path: "x.ts"},
		{Body: "unrelated", Path: "y.ts"},
	}

	got := NewAlerts(alerts, existing)

	require.Len(t, got, 2)
	assert.Equal(t, "Does [B](b) need to be updated?", got[0].Message)
	assert.Equal(t, "y.ts", got[1].Filename)
}
