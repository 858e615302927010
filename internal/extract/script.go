// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// scriptLanguage picks a grammar per extension so typed and JSX syntax parse
// natively instead of falling over.
func scriptLanguage(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		// .js, .jsx, .mjs, .cjs — the javascript grammar includes JSX.
		return javascript.GetLanguage()
	}
}

// Script extracts feature tokens from a script file. Two token shapes are
// recognized against the script alias table:
//
//   - member accesses, keyed as "<base>.<property>" where base is the object
//     identifier or, for one level of nesting, the enclosing member's
//     property name (so navigator.clipboard.readText yields
//     "clipboard.readText" as well as "navigator.clipboard")
//   - bare identifiers whose name is itself an alias key, e.g. a global
//     constructor like URLPattern
func Script(ctx context.Context, path string, src []byte, aliases map[string]string, guard GuardFunc) (FileResult, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(scriptLanguage(path))

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return FileResult{}, fmt.Errorf("parsing script: %w", err)
	}
	defer tree.Close()

	ix := newLineIndex(src)
	var res FileResult

	emit := func(token string, n *sitter.Node) {
		pt := n.StartPoint()
		line := int(pt.Row) + 1
		res.Occurrences = append(res.Occurrences, Occurrence{
			Token:   token,
			Line:    line,
			Column:  int(pt.Column) + 1,
			Snippet: ix.snippetAt(line),
			Guarded: guard(ix.window(line)),
		})
	}

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "member_expression":
			if key := memberKey(n, src); key != "" {
				if _, ok := aliases[key]; ok {
					emit(key, n)
				}
			}
		case "identifier":
			if name := n.Content(src); name != "" {
				if _, ok := aliases[name]; ok {
					emit(name, n)
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(tree.RootNode())

	return res, nil
}

// memberKey builds the dotted lookup key for a member-access node.
func memberKey(n *sitter.Node, src []byte) string {
	obj := n.ChildByFieldName("object")
	prop := n.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return ""
	}

	var base string
	switch obj.Type() {
	case "identifier":
		base = obj.Content(src)
	case "this":
		base = "this"
	case "member_expression":
		// One level of nesting: use the enclosing object's property name.
		if p := obj.ChildByFieldName("property"); p != nil {
			base = p.Content(src)
		}
	}
	if base == "" {
		return ""
	}
	return base + "." + prop.Content(src)
}
