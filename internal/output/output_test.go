package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lawndlwd/doc-drift/internal/types"
)

func TestPrintAlerts(t *testing.T) {
	var buf bytes.Buffer
	PrintAlerts(&buf, []types.Alert{
		{Link: types.Link{URL: "https://b.io", LineRange: types.LineRange{Start: 9, End: 12}, Type: types.LinkLines}, Message: "Does [B](https://b.io) need to be updated?", Filename: "z.ts"},
		{Link: types.Link{URL: "https://a.io", LineRange: types.LineRange{Start: 1, End: 40}, Type: types.LinkFile}, Message: "Does [A](https://a.io) need to be updated?", Filename: "a.ts"},
	})

	out := buf.String()
	assert.Contains(t, out, "whole file")
	assert.Contains(t, out, "L9-L12")
	assert.Less(t, strings.Index(out, "a.ts"), strings.Index(out, "z.ts"))
	assert.Contains(t, out, "Found 2 alert(s) across 2 file(s)")
}

func TestPrintAlerts_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintAlerts(&buf, nil)
	assert.Contains(t, buf.String(), "No documentation drift detected.")
}

func TestWordWrap(t *testing.T) {
	assert.Equal(t, "aaa bbb\nccc", wordWrap("aaa bbb ccc", 7))
	assert.Equal(t, "one\n\n> two", wordWrap("one\n\n> two", 20))
}

func TestRenderDigest(t *testing.T) {
	out := RenderDigest("- [Guide](https://x.io)")
	assert.Contains(t, out, "Guide")
}
