package diff

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"

	"github.com/lawndlwd/doc-drift/internal/types"
)

// SplitUnified splits a multi-file unified diff (as printed by git diff) into
// one FileChange per file. Each file's hunks are re-serialised without file
// headers and run through ParsePatch. Content is left empty for the caller.
func SplitUnified(text string) ([]types.FileChange, error) {
	fileDiffs, err := godiff.ParseMultiFileDiff([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("parse unified diff: %w", err)
	}

	files := make([]types.FileChange, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		name := stripPrefix(fd.NewName)
		if name == "" || name == "/dev/null" {
			// deleted files have nothing left to annotate
			continue
		}

		patch := hunksToPatch(fd.Hunks)
		parsed := ParsePatch(patch)
		files = append(files, types.FileChange{
			Filename:        name,
			Changes:         parsed.Changes,
			Patch:           patch,
			PatchLineRanges: parsed.PatchLineRanges,
		})
	}
	return files, nil
}

func hunksToPatch(hunks []*godiff.Hunk) string {
	var b strings.Builder
	for _, h := range hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@", h.OrigStartLine, h.OrigLines, h.NewStartLine, h.NewLines)
		if h.Section != "" {
			b.WriteString(" ")
			b.WriteString(h.Section)
		}
		b.WriteString("\n")
		b.Write(h.Body)
		if len(h.Body) > 0 && h.Body[len(h.Body)-1] != '\n' {
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func stripPrefix(name string) string {
	name = strings.TrimPrefix(name, "a/")
	return strings.TrimPrefix(name, "b/")
}

// GetFileContent reads filePath at ref, falling back to the work tree. An
// empty ref reads the work tree directly.
func GetFileContent(repoPath, filePath, ref string) (string, error) {
	if ref != "" {
		cmd := exec.Command("git", "-C", repoPath, "show", fmt.Sprintf("%s:%s", ref, filePath))
		if output, err := cmd.Output(); err == nil {
			return string(output), nil
		}
	}
	content, err := os.ReadFile(filepath.Join(repoPath, filePath))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filePath, err)
	}
	return string(content), nil
}
