// Package filter decides which changed files are worth scanning for links.
package filter

import (
	"strings"

	"github.com/lawndlwd/doc-drift/internal/languages"
	"github.com/lawndlwd/doc-drift/internal/types"
)

// FilterEligible keeps the files Eligible accepts, stopping at limit when
// limit is positive.
func FilterEligible(files []types.FileChange, limit int) []types.FileChange {
	var result []types.FileChange

	for _, f := range files {
		if !Eligible(f.Filename) {
			continue
		}
		result = append(result, f)
		if limit > 0 && len(result) >= limit {
			break
		}
	}

	return result
}

// Eligible reports whether path is a source file in a known language outside
// vendored and generated trees.
func Eligible(path string) bool {
	if path == "" {
		return false
	}
	if hasAnySuffix(path, ".min.js", ".d.ts", ".pb.go", "_generated.go") {
		return false
	}
	if containsAny(path, "node_modules/", "vendor/", "dist/", "build/", ".git/", ".gitlab/") {
		return false
	}
	return languages.Detect(path) != ""
}

func hasAnySuffix(path string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func containsAny(path string, needles ...string) bool {
	path = "/" + path
	for _, needle := range needles {
		if needle != "" && strings.Contains(path, "/"+needle) {
			return true
		}
	}
	return false
}
