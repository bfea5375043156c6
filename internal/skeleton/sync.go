package skeleton

import (
	"strings"

	"github.com/lawndlwd/doc-drift/internal/languages"
	"github.com/lawndlwd/doc-drift/internal/types"
)

// UpdateCode rewrites the doc comment of every declaration whose markdown
// doc differs. Declarations are matched by signature. An empty markdown doc
// leaves the code comment alone.
func UpdateCode(code string, codeFS, mdFS types.FileSkeleton) string {
	mdDocs := make(map[string]string, len(mdFS.Skeletons))
	for _, s := range mdFS.Skeletons {
		mdDocs[s.Signature] = s.Doc
	}

	for _, s := range codeFS.Skeletons {
		doc, ok := mdDocs[s.Signature]
		if !ok || s.RawDoc == "" || strings.TrimSpace(doc) == "" || strings.TrimSpace(doc) == strings.TrimSpace(s.Doc) {
			continue
		}
		idx := strings.Index(code, s.RawDoc)
		if idx < 0 {
			continue
		}
		rendered := languages.RenderDoc(doc, indentAt(code, idx))
		code = code[:idx] + rendered + code[idx+len(s.RawDoc):]
	}
	return code
}

// UpdateMarkdown brings md in line with the code skeletons. A section is
// matched by signature, or by doc text when the declaration was renamed;
// code skeletons matching nothing are appended. Other markdown is kept.
func UpdateMarkdown(md string, codeFS, mdFS types.FileSkeleton) string {
	doc := parseDocument(md)

	bySignature := make(map[string]int, len(doc.sections))
	for i, sec := range doc.sections {
		bySignature[sec.skeleton().Signature] = i
	}
	codeSignatures := make(map[string]bool, len(codeFS.Skeletons))
	for _, s := range codeFS.Skeletons {
		codeSignatures[s.Signature] = true
	}

	for _, cs := range codeFS.Skeletons {
		i, ok := bySignature[cs.Signature]
		if !ok {
			i, ok = renamedSection(doc.sections, cs, codeSignatures)
		}
		if !ok {
			doc.sections = append(doc.sections, section{heading: renderHeading(cs)})
			doc.sections[len(doc.sections)-1].setDoc(cs.Doc)
			continue
		}

		current := doc.sections[i].skeleton()
		if current.Signature != cs.Signature || (cs.URL != "" && current.URL != cs.URL) {
			doc.sections[i].heading = renderHeading(cs)
		}
		if current.Doc != strings.TrimSpace(cs.Doc) {
			doc.sections[i].setDoc(cs.Doc)
		}
	}

	if codeFS.TopComment != "" && codeFS.TopComment != mdFS.TopComment {
		doc.front = strings.TrimSuffix(strings.TrimPrefix(renderFrontMatter(codeFS.TopComment), "---\n"), "---\n\n")
	}

	return doc.String()
}

// renamedSection finds a section with the same doc whose signature no
// longer exists in the code.
func renamedSection(sections []section, cs types.Skeleton, codeSignatures map[string]bool) (int, bool) {
	doc := strings.TrimSpace(cs.Doc)
	if doc == "" {
		return 0, false
	}
	for i, sec := range sections {
		sk := sec.skeleton()
		if sk.Doc == doc && !codeSignatures[sk.Signature] {
			return i, true
		}
	}
	return 0, false
}

func indentAt(code string, idx int) string {
	lineStart := strings.LastIndex(code[:idx], "\n") + 1
	prefix := code[lineStart:idx]
	if strings.TrimSpace(prefix) != "" {
		return ""
	}
	return prefix
}
