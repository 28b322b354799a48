package codegen

import (
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

const RuleIDSeparator = "::"

// RuleID is the globally-qualified name a rule is registered under.
func RuleID(module, field string) string {
	return module + RuleIDSeparator + field
}

// AccessorName is the package-level function that refers to a module's rule.
// It is exported exactly when the module type is.
func AccessorName(module, field string) string {
	return module + GoName(field)
}

func GoName(field string) string {
	return strcase.ToCamel(field)
}

func receiverName(module, avoid string) string {
	r, _ := utf8.DecodeRuneInString(module)
	name := string(unicode.ToLower(r))
	if name == avoid || name == "_" || !unicode.IsLetter(r) {
		return "mod"
	}
	return name
}

// sliceName is the local holding the rules inside the assembly method. It
// must not shadow the runtime import.
func sliceName(avoid string) string {
	if avoid == "rules" {
		return "collected"
	}
	return "rules"
}
