package parse

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsOwnOutput(t *testing.T) {
	for _, test := range []struct {
		name, src string
		own       bool
	}{
		{"hand written", "package p\n", false},
		{"ours", "// Code generated by voltgen -type A. DO NOT EDIT.\n\npackage p\n", true},
		{"other tool", "// Code generated by stringer -type A. DO NOT EDIT.\n\npackage p\n", false},
		{"not a header", "// Code generated by voltgen, but edited.\n\npackage p\n", false},
	} {
		test := test
		t.Run(test.name, func(t *testing.T) {
			f, err := parser.ParseFile(token.NewFileSet(), "x.go", test.src, parser.ParseComments)
			require.NoError(t, err)
			assert.Equal(t, test.own, isOwnOutput(f))
		})
	}
}

func TestHasDirective(t *testing.T) {
	pkg := mustParse(t, `package p

// A is documented.
//volt:module
type A struct{}

// volt:module
type B struct{}

//volt:modules
type C struct{}

//volt:module extra words
type D struct{}
`)
	modules, err := pkg.Modules()
	require.NoError(t, err)
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"A", "B", "D"}, names)
}

func TestCustomDirective(t *testing.T) {
	pkg := mustParse(t, "package p\n//volt:module\ntype A struct{}\n//grammar:module\ntype B struct{}\n")
	pkg.Directive = "grammar:module"

	modules, err := pkg.Modules()
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "B", modules[0].Name)
}
