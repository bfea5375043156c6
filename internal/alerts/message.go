package alerts

import (
	"fmt"
	"strings"

	"github.com/lawndlwd/doc-drift/internal/types"
)

const (
	defaultTitle = "this document"
	excerptLimit = 280
)

// Message renders the question posted for a drifted link.
func Message(title, url, excerpt string) string {
	if title == "" {
		title = defaultTitle
	}
	msg := fmt.Sprintf("Does [%s](%s) need to be updated?", title, url)

	excerpt = strings.Join(strings.Fields(excerpt), " ")
	if excerpt == "" {
		return msg
	}
	if r := []rune(excerpt); len(r) > excerptLimit {
		excerpt = string(r[:excerptLimit]) + "…"
	}
	return msg + "\n\n> " + excerpt
}

// NewAlerts drops alerts already posted as a review comment with the same
// body on the same file.
func NewAlerts(alerts []types.Alert, existing []types.ReviewComment) []types.Alert {
	seen := make(map[types.ReviewComment]bool, len(existing))
	for _, c := range existing {
		seen[c] = true
	}

	out := make([]types.Alert, 0, len(alerts))
	for _, a := range alerts {
		if seen[types.ReviewComment{Body: a.Message, Path: a.Filename}] {
			continue
		}
		out = append(out, a)
	}
	return out
}
