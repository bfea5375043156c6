package diff

import "github.com/lawndlwd/doc-drift/internal/types"

// GetEncompassingRangeAndSideForAlert picks the span of the diff view a
// review comment for alertRange should be anchored to.
//
// Each hunk contributes the smaller of its two start lines and the larger of
// its two end lines, each tagged with the side it came from. The hunk span is
// intersected with alertRange, and the last hunk giving a non-degenerate
// intersection wins. Hunks are not compared by overlap size.
func GetEncompassingRangeAndSideForAlert(ranges []types.PatchLineRange, alertRange types.LineRange) types.RangeWithSide {
	result := types.RangeWithSide{
		Start: types.LineSide{Line: 0, Side: types.SideLeft},
		End:   types.LineSide{Line: 0, Side: types.SideRight},
	}

	for _, r := range ranges {
		start := types.LineSide{Line: r.AddRange.Start, Side: types.SideRight}
		if r.MinusRange.Start < r.AddRange.Start {
			start = types.LineSide{Line: r.MinusRange.Start, Side: types.SideLeft}
		}
		end := types.LineSide{Line: r.AddRange.End, Side: types.SideRight}
		if r.MinusRange.End > r.AddRange.End {
			end = types.LineSide{Line: r.MinusRange.End, Side: types.SideLeft}
		}

		newStart := max(start.Line, alertRange.Start)
		newEnd := min(end.Line, alertRange.End)
		if newEnd-newStart > 0 {
			result = types.RangeWithSide{
				Start: types.LineSide{Line: newStart, Side: start.Side},
				End:   types.LineSide{Line: newEnd, Side: end.Side},
			}
		}
	}

	return result
}
