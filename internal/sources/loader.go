// Package sources loads source files from disk for skeleton generation.
package sources

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lawndlwd/doc-drift/internal/filter"
	"github.com/lawndlwd/doc-drift/internal/types"
)

// Load reads path, a single file or a directory walked recursively. Only
// eligible files with one of exts are kept; an empty exts keeps them all.
// Filenames are relative to root, slash separated, in sorted order.
func Load(root, path string, exts ...string) ([]types.CodeFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	var files []string
	if info.IsDir() {
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != path && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			files = append(files, p)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
	} else {
		files = []string{path}
	}

	sort.Strings(files)

	var out []types.CodeFile
	for _, file := range files {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			rel = file
		}
		rel = filepath.ToSlash(rel)
		if !filter.Eligible(rel) || !hasExt(rel, exts) {
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		out = append(out, types.CodeFile{Filename: rel, Content: string(content)})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no source files found in %s", path)
	}
	return out, nil
}

func hasExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
