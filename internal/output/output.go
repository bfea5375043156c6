// Package output renders alerts and digests for the terminal.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/lawndlwd/doc-drift/internal/types"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	fileStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	lineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

// PrintAlerts writes alerts grouped by file, ordered by line.
func PrintAlerts(w io.Writer, alerts []types.Alert) {
	if len(alerts) == 0 {
		fmt.Fprintln(w, okStyle.Render("No documentation drift detected."))
		return
	}

	byFile := make(map[string][]types.Alert)
	for _, a := range alerts {
		byFile[a.Filename] = append(byFile[a.Filename], a)
	}

	var files []string
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	fmt.Fprintln(w, headerStyle.Render("DOCUMENTATION DRIFT"))
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("─", 80)))

	for _, file := range files {
		fileAlerts := byFile[file]
		sort.SliceStable(fileAlerts, func(i, j int) bool {
			return fileAlerts[i].LineRange.Start < fileAlerts[j].LineRange.Start
		})

		fmt.Fprintln(w, fileStyle.Render(file))
		for _, a := range fileAlerts {
			fmt.Fprintf(w, "  %s %s\n", lineStyle.Render(lineLabel(a)), a.URL)
			for _, line := range strings.Split(wordWrap(a.Message, 76), "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("─", 80)))
	fmt.Fprintf(w, "Found %d alert(s) across %d file(s)\n", len(alerts), len(files))
}

// PrintFiles lists generated or updated files.
func PrintFiles(w io.Writer, files []types.CodeFile) {
	for _, f := range files {
		fmt.Fprintf(w, "%s %s\n", okStyle.Render("wrote"), f.Filename)
	}
}

// RenderDigest renders markdown for the terminal, falling back to the raw
// text when rendering fails.
func RenderDigest(md string) string {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		return md
	}
	return out
}

func lineLabel(a types.Alert) string {
	if a.Type == types.LinkFile {
		return "whole file"
	}
	if a.LineRange.Start == a.LineRange.End {
		return fmt.Sprintf("L%d", a.LineRange.Start)
	}
	return fmt.Sprintf("L%d-L%d", a.LineRange.Start, a.LineRange.End)
}

func wordWrap(text string, width int) string {
	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		var lines []string
		var currentLine []string
		currentLength := 0
		for _, word := range words {
			wordLen := len(word)
			if currentLength > 0 && currentLength+wordLen+1 > width {
				lines = append(lines, strings.Join(currentLine, " "))
				currentLine = []string{word}
				currentLength = wordLen
			} else {
				currentLine = append(currentLine, word)
				if currentLength > 0 {
					currentLength++
				}
				currentLength += wordLen
			}
		}
		if len(currentLine) > 0 {
			lines = append(lines, strings.Join(currentLine, " "))
		}
		out = append(out, lines...)
	}
	return strings.Join(out, "\n")
}
