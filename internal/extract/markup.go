// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// Markup extracts feature tokens from an HTML file: element tag names and
// attribute names that are alias keys. Positions come from the tokenizer's
// raw byte stream — the start offset of each token is the sum of the raw
// lengths before it, which stays exact regardless of how the tree would be
// reparented during full parsing.
func Markup(src []byte, aliases map[string]string) (FileResult, error) {
	z := html.NewTokenizer(bytes.NewReader(src))
	ix := newLineIndex(src)

	var res FileResult
	offset := 0
	for {
		tt := z.Next()
		raw := append([]byte(nil), z.Raw()...)
		tokenStart := offset
		offset += len(raw)

		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return res, nil
			}
			return FileResult{}, fmt.Errorf("tokenizing markup: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			line, col := ix.position(tokenStart)

			if _, ok := aliases[tok.Data]; ok {
				res.Occurrences = append(res.Occurrences, Occurrence{
					Token:   tok.Data,
					Line:    line,
					Column:  col,
					Snippet: ix.snippetAt(line),
				})
			}

			for _, attr := range tok.Attr {
				if _, ok := aliases[attr.Key]; !ok {
					continue
				}
				// Attribute-level position where the raw tag bytes allow it,
				// else fall back to the element's position.
				aLine, aCol := line, col
				if rel := attrOffset(raw, attr.Key); rel >= 0 {
					aLine, aCol = ix.position(tokenStart + rel)
				}
				res.Occurrences = append(res.Occurrences, Occurrence{
					Token:   attr.Key,
					Line:    aLine,
					Column:  aCol,
					Snippet: ix.snippetAt(aLine),
				})
			}
		}
	}
}

// attrOffset locates an attribute name inside a raw tag, requiring a
// whitespace boundary before and a terminator after so substrings of other
// names or values don't match. Returns -1 when not found.
func attrOffset(raw []byte, key string) int {
	k := []byte(key)
	for from := 0; from < len(raw); {
		i := bytes.Index(raw[from:], k)
		if i < 0 {
			return -1
		}
		i += from
		okBefore := false
		if i > 0 {
			before := raw[i-1]
			okBefore = before == ' ' || before == '\t' || before == '\n' || before == '\r' || before == '/'
		}
		j := i + len(k)
		okAfter := j >= len(raw) || raw[j] == '=' || raw[j] == ' ' || raw[j] == '\t' ||
			raw[j] == '\n' || raw[j] == '\r' || raw[j] == '>' || raw[j] == '/'
		if okBefore && okAfter {
			return i
		}
		from = i + 1
	}
	return -1
}
