// SPDX-License-Identifier: AGPL-3.0-or-later

// Package collector enumerates the source files a scan will extract from.
package collector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when the scan root does not exist or is not a
// directory. It is the only condition that aborts a scan.
var ErrNotFound = errors.New("scan root not found")

// Kind identifies the extractor family a file belongs to.
type Kind int

const (
	KindScript Kind = iota
	KindStyle
	KindMarkup
)

// String returns the family name used in logs and diagnostics.
func (k Kind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindStyle:
		return "style"
	case KindMarkup:
		return "markup"
	default:
		return "unknown"
	}
}

// File is one collected source file. Path is relative to the scan root and
// slash-separated so reports are stable across platforms.
type File struct {
	Path string
	Kind Kind
}

var extensionKinds = map[string]Kind{
	".js":   KindScript,
	".jsx":  KindScript,
	".ts":   KindScript,
	".tsx":  KindScript,
	".mjs":  KindScript,
	".cjs":  KindScript,
	".css":  KindStyle,
	".html": KindMarkup,
	".htm":  KindMarkup,
}

// DefaultExcludeDirs returns directory names skipped during collection.
// Matching is segment-aware: "dist" excludes "dist/app.js" and
// "pkg/dist/app.js" but not "distribution/app.js".
func DefaultExcludeDirs() []string {
	return []string{
		"node_modules",
		".git",
		"dist",
		"build",
		"out",
		"coverage",
		".next",
		".cache",
	}
}

// Collect walks root and returns every file whose extension belongs to one
// of the script, style, or markup families, sorted by path. Unreadable
// entries are skipped and reported as warnings; only a missing or
// non-directory root is fatal.
func Collect(root string) ([]File, []string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, root)
	}

	excludes := DefaultExcludeDirs()

	var files []File
	var warnings []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Permission errors and racing deletions degrade to warnings.
			warnings = append(warnings, fmt.Sprintf("%s: %v", path, walkErr))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && excluded(d.Name(), excludes) {
				return filepath.SkipDir
			}
			return nil
		}
		kind, ok := extensionKinds[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", path, err))
			return nil
		}
		files = append(files, File{Path: filepath.ToSlash(rel), Kind: kind})
		return nil
	})
	if err != nil {
		return nil, warnings, fmt.Errorf("walking %s: %w", root, err)
	}

	// Never depend on filesystem enumeration order.
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, warnings, nil
}

func excluded(name string, excludes []string) bool {
	for _, e := range excludes {
		if name == e {
			return true
		}
	}
	return false
}
