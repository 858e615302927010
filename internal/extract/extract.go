// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract turns one source file into raw feature-token occurrences.
// Each format (script, style, markup) owns its own traversal and node-kind
// dispatch; resolution of tokens to canonical feature ids happens in the
// engine, against the merged alias table.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/bartekus/baseline/internal/catalog"
	"github.com/bartekus/baseline/internal/collector"
)

// Occurrence is one raw token match with its source position. Line and
// Column are 1-based.
type Occurrence struct {
	Token   string
	Line    int
	Column  int
	Snippet string

	// Guarded records whether the local context around the match looks like
	// progressive enhancement (see DetectGuard).
	Guarded bool
}

// FileResult is everything extracted from a single file.
type FileResult struct {
	Occurrences []Occurrence

	// SupportsGuard is set when a stylesheet contains an @supports( block.
	// The softening it triggers is file-scoped, not rule-scoped: every
	// feature hit in the file is treated as guarded.
	SupportsGuard bool
}

// File dispatches src to the extractor for f's format family.
func File(ctx context.Context, f collector.File, src []byte, cat *catalog.Catalog, guard GuardFunc) (FileResult, error) {
	if guard == nil {
		guard = DetectGuard
	}
	switch f.Kind {
	case collector.KindScript:
		return Script(ctx, f.Path, src, cat.ScriptAliases(), guard)
	case collector.KindStyle:
		return Style(src, cat.StyleAliases())
	case collector.KindMarkup:
		return Markup(src, cat.MarkupAliases())
	default:
		return FileResult{}, fmt.Errorf("no extractor for %s files", f.Kind)
	}
}

// lineIndex maps byte offsets to 1-based line/column positions.
type lineIndex struct {
	lines  []string
	starts []int
}

func newLineIndex(src []byte) *lineIndex {
	text := string(src)
	lines := strings.Split(text, "\n")
	starts := make([]int, len(lines))
	off := 0
	for i, l := range lines {
		starts[i] = off
		off += len(l) + 1
	}
	return &lineIndex{lines: lines, starts: starts}
}

// position converts a byte offset into (line, column), both 1-based.
func (ix *lineIndex) position(offset int) (int, int) {
	// binary search over line starts
	lo, hi := 0, len(ix.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if ix.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - ix.starts[lo] + 1
}

// snippetAt returns the trimmed source line at a 1-based line number.
func (ix *lineIndex) snippetAt(line int) string {
	if line < 1 || line > len(ix.lines) {
		return ""
	}
	return strings.TrimSpace(ix.lines[line-1])
}

// window returns the surrounding lines used as guard-detection context:
// three lines either side of the 1-based hit line.
func (ix *lineIndex) window(line int) string {
	lo := line - 4
	if lo < 0 {
		lo = 0
	}
	hi := line + 3
	if hi > len(ix.lines) {
		hi = len(ix.lines)
	}
	return strings.Join(ix.lines[lo:hi], "\n")
}
