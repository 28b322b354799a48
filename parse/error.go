package parse

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/arr-ai/voltgen/gotree"
)

type DeclErrorKind int

const (
	NoError DeclErrorKind = iota
	NotAStruct
	UnnamedField
	BlankField
	GenericType
	TypeNotFound
)

func (k DeclErrorKind) String() string {
	switch k {
	case NoError:
		return "no error"
	case NotAStruct:
		return "not a struct"
	case UnnamedField:
		return "unnamed field"
	case BlankField:
		return "blank field"
	case GenericType:
		return "generic type"
	case TypeNotFound:
		return "type not found"
	}
	return fmt.Sprintf("DeclErrorKind(%d)", int(k))
}

// DeclError reports a type declaration that cannot be turned into a module.
type DeclError struct {
	Kind DeclErrorKind
	Type string
	Pos  token.Position
	msg  string
}

func declErrorf(kind DeclErrorKind, typeName string, pos token.Position, format string, args ...interface{}) DeclError {
	return DeclError{Kind: kind, Type: typeName, Pos: pos, msg: fmt.Sprintf(format, args...)}
}

func (e DeclError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.msg)
	}
	return e.msg
}

// Errors collects the failures of several declarations.
type Errors []error

func (e Errors) Error() string {
	return e.tree().Print()
}

func (e Errors) tree() *gotree.Tree {
	tree := gotree.New(e.label())
	for _, err := range e {
		if nested, ok := err.(Errors); ok {
			tree.AddTree(nested.tree())
			continue
		}
		lines := strings.Split(err.Error(), "\n")
		branch := tree.Add(lines[0])
		for _, line := range lines[1:] {
			if line != "" {
				branch.Add(line)
			}
		}
	}
	return tree
}

// label names the shared type when every error concerns the same declaration.
func (e Errors) label() string {
	if len(e) == 0 {
		return "no declarations rejected"
	}
	typeName := ""
	for i, err := range e {
		d, ok := err.(DeclError)
		if !ok || (i > 0 && d.Type != typeName) {
			return fmt.Sprintf("%d declaration(s) rejected", len(e))
		}
		typeName = d.Type
	}
	return fmt.Sprintf("type %s: %d problem(s)", typeName, len(e))
}

func (e Errors) Unwrap() []error {
	return e
}

func (e Errors) orNil() error {
	switch len(e) {
	case 0:
		return nil
	case 1:
		return e[0]
	}
	return e
}
