// Package diff parses unified-diff hunks into per-line changes and maps
// review anchors back onto the visible hunk ranges.
package diff

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lawndlwd/doc-drift/internal/types"
)

// @@ -start[,count] +start[,count] @@ optional section text
var hunkHeader = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Patch is the parsed form of one file's hunks.
type Patch struct {
	Changes         []types.Change
	PatchLineRanges []types.PatchLineRange
}

// ParsePatch scans a hunk-only unified diff. It never fails: text without
// hunk headers yields no ranges, and an empty patch yields an empty result.
func ParsePatch(patch string) Patch {
	result := Patch{
		Changes:         []types.Change{},
		PatchLineRanges: []types.PatchLineRange{},
	}
	if patch == "" {
		return result
	}

	currentMinusLine := 0
	currentAddLine := 0

	for _, line := range strings.Split(patch, "\n") {
		if matches := hunkHeader.FindStringSubmatch(line); matches != nil {
			minusStart, minusCount := atoi(matches[1], 0), atoi(matches[2], 1)
			addStart, addCount := atoi(matches[3], 0), atoi(matches[4], 1)

			currentMinusLine = minusStart
			currentAddLine = addStart
			result.PatchLineRanges = append(result.PatchLineRanges, types.PatchLineRange{
				MinusRange: types.LineRange{Start: minusStart, End: minusStart + minusCount - 1},
				AddRange:   types.LineRange{Start: addStart, End: addStart + addCount - 1},
			})
			continue
		}

		switch {
		case strings.HasPrefix(line, "-"):
			result.Changes = append(result.Changes, types.Change{
				Type:    types.ChangeDelete,
				Line:    currentMinusLine,
				Content: line[1:],
			})
			currentMinusLine++
		case strings.HasPrefix(line, "+"):
			result.Changes = append(result.Changes, types.Change{
				Type:    types.ChangeAdd,
				Line:    currentAddLine,
				Content: line[1:],
			})
			currentAddLine++
		default:
			currentMinusLine++
			currentAddLine++
		}
	}

	return result
}

// ChangesIn returns the changes whose line number falls inside r.
func ChangesIn(changes []types.Change, r types.LineRange) []types.Change {
	var out []types.Change
	for _, c := range changes {
		if r.Contains(c.Line) {
			out = append(out, c)
		}
	}
	return out
}

func atoi(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
