// Package skeleton renders declaration skeletons as GitBook markdown and
// keeps the markdown and the source comments in sync.
package skeleton

import (
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawndlwd/doc-drift/internal/types"
)

var (
	linkedHeading = regexp.MustCompile(`^### \[(.*)\]\(((?:[^()\s]|\([^()\s]*\))*)\)\s*$`)
	lineAnchor    = regexp.MustCompile(`#L(\d+)-L(\d+)$`)
)

type frontMatter struct {
	Description string `yaml:"description"`
}

// section is one "### " heading and the lines up to the next one.
type section struct {
	heading string
	body    []string
}

// document keeps unrecognised markdown verbatim around the sections.
type document struct {
	front    string
	preamble []string
	sections []section
}

// ToMarkdown renders fs as a GitBook page.
func ToMarkdown(fs types.FileSkeleton) string {
	var b strings.Builder
	b.WriteString(renderFrontMatter(fs.TopComment))
	if fs.Filename != "" {
		b.WriteString("# " + fs.Filename + "\n\n")
	}
	for i, s := range fs.Skeletons {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderSection(s))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// FromMarkdown parses a page produced by ToMarkdown. RawDoc is not
// recoverable and stays empty.
func FromMarkdown(md string) types.FileSkeleton {
	doc := parseDocument(md)
	fs := types.FileSkeleton{
		TopComment: parseFrontMatter(doc.front),
		Skeletons:  make([]types.Skeleton, 0, len(doc.sections)),
	}
	for _, line := range doc.preamble {
		if strings.HasPrefix(line, "# ") {
			fs.Filename = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			break
		}
	}
	for _, sec := range doc.sections {
		fs.Skeletons = append(fs.Skeletons, sec.skeleton())
	}
	return fs
}

func renderFrontMatter(top string) string {
	if top == "" {
		return ""
	}
	out, err := yaml.Marshal(frontMatter{Description: top})
	if err != nil {
		return ""
	}
	return "---\n" + string(out) + "---\n\n"
}

func parseFrontMatter(front string) string {
	if front == "" {
		return ""
	}
	var fm frontMatter
	if err := yaml.Unmarshal([]byte(front), &fm); err != nil {
		return ""
	}
	return strings.TrimSpace(fm.Description)
}

func renderHeading(s types.Skeleton) string {
	if s.URL == "" {
		return "### " + s.Signature
	}
	return "### [" + s.Signature + "](" + s.URL + ")"
}

func renderSection(s types.Skeleton) string {
	out := renderHeading(s) + "\n"
	if doc := strings.TrimSpace(s.Doc); doc != "" {
		out += "\n" + doc + "\n"
	}
	return out
}

func parseDocument(md string) document {
	var doc document
	lines := strings.Split(strings.ReplaceAll(md, "\r\n", "\n"), "\n")

	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				doc.front = strings.Join(lines[1:i], "\n")
				lines = lines[i+1:]
				break
			}
		}
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "### ") {
			doc.sections = append(doc.sections, section{heading: line})
			continue
		}
		if n := len(doc.sections); n > 0 {
			doc.sections[n-1].body = append(doc.sections[n-1].body, line)
		} else {
			doc.preamble = append(doc.preamble, line)
		}
	}
	return doc
}

func (d document) String() string {
	var b strings.Builder
	if d.front != "" {
		b.WriteString("---\n" + strings.TrimRight(d.front, "\n") + "\n---\n")
	}
	lines := append([]string{}, d.preamble...)
	for _, sec := range d.sections {
		lines = append(lines, sec.heading)
		lines = append(lines, sec.body...)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func (s section) skeleton() types.Skeleton {
	var sk types.Skeleton
	if m := linkedHeading.FindStringSubmatch(s.heading); m != nil {
		sk.Signature, sk.URL = m[1], m[2]
		if a := lineAnchor.FindStringSubmatch(sk.URL); a != nil {
			sk.LineRange.Start, _ = strconv.Atoi(a[1])
			sk.LineRange.End, _ = strconv.Atoi(a[2])
		}
	} else {
		sk.Signature = strings.TrimSpace(strings.TrimPrefix(s.heading, "### "))
	}
	sk.Doc = strings.TrimSpace(strings.Join(s.body, "\n"))
	return sk
}

func (s *section) setDoc(doc string) {
	s.body = []string{""}
	if doc = strings.TrimSpace(doc); doc != "" {
		s.body = append(s.body, strings.Split(doc, "\n")...)
		s.body = append(s.body, "")
	}
}
