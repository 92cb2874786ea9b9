// Package mixin resolves mixin calls against mixin definitions in two
// passes over the finished tree. Definitions are visible file-wide, so a
// call may precede its definition; recursive bodies are legal.
package mixin

import (
	"jinjade/internal/ast"
	"jinjade/internal/diag"
	"jinjade/internal/source"
)

// Resolve links every mixin-call node to its definition. Duplicate names and
// calls without a definition are errors; returns false if any were reported.
func Resolve(b *ast.Builder, root ast.NodeID, f *source.File, r diag.Reporter) bool {
	defs := make(map[string]ast.NodeID)
	ok := true

	b.Walk(root, func(id ast.NodeID, n *ast.Node) {
		if n.Kind != ast.KindMixinDef {
			return
		}
		first, dup := defs[n.Name]
		if !dup {
			defs[n.Name] = id
			return
		}
		ok = false
		diag.ErrorNote(r, diag.MixinDuplicate, lineSpan(f, n.Line),
			"mixin '"+n.Name+"' is defined more than once",
			lineSpan(f, b.Get(first).Line), "first defined here")
	})

	b.Walk(root, func(_ ast.NodeID, n *ast.Node) {
		if n.Kind != ast.KindMixinCall {
			return
		}
		def, found := defs[n.Name]
		if !found {
			ok = false
			diag.Error(r, diag.MixinUnresolved, lineSpan(f, n.Line),
				"mixin '"+n.Name+"' is not defined")
			return
		}
		n.Def = def
	})

	return ok
}

func lineSpan(f *source.File, lineNum uint32) source.Span {
	sp, _ := f.LineSpan(lineNum)
	return sp
}
