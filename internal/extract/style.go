// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"fmt"
	"strings"

	"github.com/gorilla/css/scanner"
)

// at-rules whose block nests further rules rather than declarations
var nestedAtRules = map[string]bool{
	"@media":     true,
	"@supports":  true,
	"@container": true,
	"@layer":     true,
	"@scope":     true,
	"@document":  true,
}

// Style extracts feature tokens from a stylesheet. Rules and declarations
// are rebuilt from the token stream; three checks run against them:
//
//   - a selector containing the :has pseudo-class fragment
//   - a selector containing the substring "dialog"
//   - a declaration whose property or value contains "popover"
//
// Independently the whole file is scanned once for an @supports( occurrence;
// when present every occurrence in the file is marked guarded (file-scoped
// softening, deliberately coarser than rule-scoped).
func Style(src []byte, aliases map[string]string) (FileResult, error) {
	p := &styleParser{
		aliases: aliases,
		ix:      newLineIndex(src),
	}

	s := scanner.New(string(src))
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF {
			break
		}
		if tok.Type == scanner.TokenError {
			return FileResult{}, fmt.Errorf("tokenizing stylesheet at %d:%d: %s", tok.Line, tok.Column, tok.Value)
		}
		p.consume(tok)
	}
	p.flushDeclaration()

	if strings.Contains(string(src), "@supports(") {
		p.res.SupportsGuard = true
		for i := range p.res.Occurrences {
			p.res.Occurrences[i].Guarded = true
		}
	}
	return p.res, nil
}

// styleParser reassembles rules and declarations from scanner tokens. The
// stack tracks, per open block, whether it holds declarations (selector
// rules, @font-face) or nested rules (@media and friends).
type styleParser struct {
	res     FileResult
	aliases map[string]string
	ix      *lineIndex

	stack []bool

	prelude     strings.Builder
	preludeLine int
	preludeCol  int
	preludeAt   bool
	atName      string

	prop     string
	propLine int
	propCol  int
	value    strings.Builder
	inValue  bool
}

func (p *styleParser) inDeclarations() bool {
	return len(p.stack) > 0 && p.stack[len(p.stack)-1]
}

func (p *styleParser) consume(tok *scanner.Token) {
	switch tok.Type {
	case scanner.TokenComment, scanner.TokenCDO, scanner.TokenCDC, scanner.TokenBOM:
		return
	case scanner.TokenS:
		if p.inDeclarations() && p.inValue {
			p.value.WriteString(" ")
		} else if p.prelude.Len() > 0 {
			p.prelude.WriteString(" ")
		}
		return
	case scanner.TokenAtKeyword:
		if p.prelude.Len() == 0 {
			p.preludeAt = true
			p.atName = strings.ToLower(tok.Value)
			p.markPrelude(tok)
		}
		p.prelude.WriteString(tok.Value)
		return
	case scanner.TokenChar:
		switch tok.Value {
		case "{":
			p.openBlock()
			return
		case "}":
			p.closeBlock()
			return
		case ":":
			if p.inDeclarations() && p.prop != "" && !p.inValue {
				p.inValue = true
				return
			}
		case ";":
			if p.inDeclarations() {
				p.flushDeclaration()
			} else {
				p.resetPrelude() // block-less at-rule such as @import
			}
			return
		}
	}

	// Everything else is selector prelude or declaration content.
	if p.inDeclarations() {
		if p.inValue {
			p.value.WriteString(tok.Value)
		} else if p.prop == "" && tok.Type == scanner.TokenIdent {
			p.prop = tok.Value
			p.propLine = tok.Line
			p.propCol = tok.Column
		}
		return
	}
	if p.prelude.Len() == 0 {
		p.markPrelude(tok)
	}
	p.prelude.WriteString(tok.Value)
}

func (p *styleParser) markPrelude(tok *scanner.Token) {
	p.preludeLine = tok.Line
	p.preludeCol = tok.Column
}

func (p *styleParser) openBlock() {
	if p.preludeAt {
		// @media/@supports blocks nest rules; @font-face-style at-rules
		// open declaration blocks directly.
		p.stack = append(p.stack, !nestedAtRules[p.atName])
	} else {
		p.checkSelector()
		p.stack = append(p.stack, true)
	}
	p.resetPrelude()
}

func (p *styleParser) closeBlock() {
	p.flushDeclaration()
	if len(p.stack) > 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}
	p.resetPrelude()
}

func (p *styleParser) resetPrelude() {
	p.prelude.Reset()
	p.preludeAt = false
	p.atName = ""
}

// checkSelector runs the selector-level feature checks for one rule.
func (p *styleParser) checkSelector() {
	sel := strings.TrimSpace(p.prelude.String())
	if sel == "" {
		return
	}
	if strings.Contains(sel, ":has") {
		p.emit(":has", p.preludeLine, p.preludeCol, sel)
	}
	if strings.Contains(sel, "dialog") {
		p.emit("dialog", p.preludeLine, p.preludeCol, sel)
	}
}

// flushDeclaration runs the declaration-level check and clears decl state.
func (p *styleParser) flushDeclaration() {
	if p.prop != "" {
		val := strings.TrimSpace(p.value.String())
		if strings.Contains(p.prop, "popover") || strings.Contains(val, "popover") {
			p.emit("popover", p.propLine, p.propCol, fmt.Sprintf("%s: %s", p.prop, val))
		}
	}
	p.prop = ""
	p.value.Reset()
	p.inValue = false
}

func (p *styleParser) emit(token string, line, col int, snippet string) {
	if _, ok := p.aliases[token]; !ok {
		return
	}
	p.res.Occurrences = append(p.res.Occurrences, Occurrence{
		Token:   token,
		Line:    line,
		Column:  col,
		Snippet: snippet,
	})
}
