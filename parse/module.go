// Package parse reads Go source and extracts the struct types that describe
// rule modules.
package parse

import (
	"go/ast"
	"go/token"
	"strings"
)

// Directive marks a struct type as a rule module when it appears on its own
// line in the type's doc comment.
const Directive = "volt:module"

// Module is a struct type whose fields are the rules of a grammar module.
type Module struct {
	Name    string
	Pos     token.Position
	Fields  []Field
	Methods []string // methods already declared on the type
}

// Field is one named rule of a module.
type Field struct {
	Name string
	Type string // source text of the field's type
	Pos  token.Position
}

// Exported reports whether code outside the package can refer to the module.
func (m Module) Exported() bool {
	return token.IsExported(m.Name)
}

// FieldNames returns the rule names in declaration order.
func (m Module) FieldNames() []string {
	out := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		out = append(out, f.Name)
	}
	return out
}

func hasDirective(directive string, groups ...*ast.CommentGroup) bool {
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			if text == directive || strings.HasPrefix(text, directive+" ") {
				return true
			}
		}
	}
	return false
}
