package codegen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arr-ai/voltgen/config"
	"github.com/arr-ai/voltgen/parse"
)

const arithSource = `package grammar

import "github.com/arr-ai/volt"

//volt:module
type Arith struct {
	expr, term     volt.Element
	number_literal volt.Element
}

//volt:module
type Empty struct{}
`

type generated struct {
	src  string
	file *ast.File
}

func generate(t *testing.T, g Generator, src string, types ...string) generated {
	t.Helper()
	pkg, err := parse.ParseSource("grammar.go", src)
	require.NoError(t, err)
	modules, err := pkg.Modules(types...)
	require.NoError(t, err)
	out, err := g.Source(pkg, modules)
	require.NoError(t, err)
	file, err := parser.ParseFile(token.NewFileSet(), "volt_gen.go", out, parser.ParseComments)
	require.NoError(t, err, "%s", out)
	return generated{src: string(out), file: file}
}

func defaultGenerator() Generator {
	return Generator{Runtime: config.DefaultRuntime(), CommandLine: "gen"}
}

func (g generated) funcs() (accessors []string, methods map[string][]string) {
	methods = map[string][]string{}
	for _, decl := range g.file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if fn.Recv == nil {
			accessors = append(accessors, fn.Name.Name)
			continue
		}
		recv := fn.Recv.List[0].Type.(*ast.Ident).Name
		methods[recv] = append(methods[recv], fn.Name.Name)
	}
	return accessors, methods
}

// registered returns the rule IDs passed to NewRule inside the assembly
// method of module, in order.
func (g generated) registered(module string) []string {
	var ids []string
	for _, decl := range g.file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || fn.Recv.List[0].Type.(*ast.Ident).Name != module {
			continue
		}
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || calleeName(call) != "NewRule" {
				return true
			}
			idCall := call.Args[0].(*ast.CallExpr)
			id, err := strconv.Unquote(idCall.Args[0].(*ast.BasicLit).Value)
			if err == nil {
				ids = append(ids, id)
			}
			return true
		})
	}
	return ids
}

func calleeName(call *ast.CallExpr) string {
	switch fn := call.Fun.(type) {
	case *ast.SelectorExpr:
		return fn.Sel.Name
	case *ast.Ident:
		return fn.Name
	}
	return ""
}

func TestGenerateArith(t *testing.T) {
	out := generate(t, defaultGenerator(), arithSource)

	assert.True(t, ast.IsGenerated(out.file))
	assert.Contains(t, out.src, "// Code generated by voltgen gen. DO NOT EDIT.")
	assert.Equal(t, "grammar", out.file.Name.Name)

	accessors, methods := out.funcs()
	assert.Equal(t, []string{"ArithExpr", "ArithTerm", "ArithNumberLiteral"}, accessors)
	assert.Equal(t, map[string][]string{"Arith": {"IntoRuleVec"}, "Empty": {"IntoRuleVec"}}, methods)

	assert.Equal(t, []string{"Arith::expr", "Arith::term", "Arith::number_literal"}, out.registered("Arith"))
	assert.Empty(t, out.registered("Empty"))

	assert.Contains(t, out.src, "func ArithExpr() volt.Element {")
	assert.Contains(t, out.src, `return volt.RuleRef(volt.RuleID("Arith::expr"))`)
	assert.Contains(t, out.src, "func (a Arith) IntoRuleVec() volt.RuleVec {")
	assert.Contains(t, out.src, "rules := make([]volt.Rule, 0, 3)")
	assert.Contains(t, out.src,
		`rules = append(rules, volt.NewRule(volt.RuleID("Arith::number_literal"), a.number_literal).DetectLeftRecursion())`)
	assert.Contains(t, out.src, "return volt.RuleVec(rules)")
	assert.Contains(t, out.src, "var _ volt.ModuleAssist = Arith{}")
	assert.Contains(t, out.src, "rules := make([]volt.Rule, 0, 0)")
	assert.Contains(t, out.src, "var _ volt.ModuleAssist = Empty{}")
}

func TestGenerateRuleCountProperty(t *testing.T) {
	for n := 0; n <= 6; n++ {
		n := n
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			var fields []string
			var expected []string
			for i := 0; i < n; i++ {
				name := fmt.Sprintf("rule_%d", i)
				fields = append(fields, name+" volt.Element")
				expected = append(expected, "Sample::"+name)
			}
			src := "package p\ntype Sample struct {\n" + strings.Join(fields, "\n") + "\n}\n"
			out := generate(t, defaultGenerator(), src, "Sample")

			accessors, methods := out.funcs()
			assert.Len(t, accessors, n)
			assert.Equal(t, []string{"IntoRuleVec"}, methods["Sample"])
			if n == 0 {
				assert.Empty(t, out.registered("Sample"))
			} else {
				assert.Equal(t, expected, out.registered("Sample"))
			}
			assert.Equal(t, n, strings.Count(out.src, "DetectLeftRecursion()"))
		})
	}
}

func TestGenerateUnexportedModule(t *testing.T) {
	out := generate(t, defaultGenerator(), "package p\ntype arith struct { expr volt.Element }\n", "arith")

	accessors, _ := out.funcs()
	assert.Equal(t, []string{"arithExpr"}, accessors)
	assert.Equal(t, []string{"arith::expr"}, out.registered("arith"))
	assert.Contains(t, out.src, "func (a arith) IntoRuleVec() volt.RuleVec {")
}

func TestGenerateCustomRuntime(t *testing.T) {
	g := defaultGenerator()
	g.Runtime.Path = "example.com/grammar/rt"
	g.Runtime.Name = "rt"
	g.Runtime.RuleVec = "Rules"
	g.Runtime.AssembleMethod = "Rules"
	out := generate(t, g, "package p\ntype Json struct { value rt.Element }\n", "Json")

	_, methods := out.funcs()
	assert.Equal(t, []string{"Rules"}, methods["Json"])
	assert.Contains(t, out.src, `"example.com/grammar/rt"`)
	assert.Contains(t, out.src, "func (j Json) Rules() rt.Rules {")
	assert.Contains(t, out.src, "return rt.Rules(rules)")
}

func TestGenerateRuntimeNamedRules(t *testing.T) {
	g := defaultGenerator()
	g.Runtime.Path = "example.com/rules"
	g.Runtime.Name = "rules"
	out := generate(t, g, "package p\ntype Json struct { value, array rules.Element }\n", "Json")

	assert.Equal(t, []string{"Json::value", "Json::array"}, out.registered("Json"))
	assert.Contains(t, out.src, "collected := make([]rules.Rule, 0, 2)")
	assert.Contains(t, out.src,
		`collected = append(collected, rules.NewRule(rules.RuleID("Json::value"), j.value).DetectLeftRecursion())`)
	assert.Contains(t, out.src, "return rules.RuleVec(collected)")

	// No local in the generated code may shadow the runtime import.
	ast.Inspect(out.file, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.AssignStmt:
			for _, lhs := range n.Lhs {
				if id, ok := lhs.(*ast.Ident); ok {
					assert.NotEqual(t, "rules", id.Name)
				}
			}
		case *ast.FuncDecl:
			if n.Recv != nil {
				assert.NotEqual(t, "rules", n.Recv.List[0].Names[0].Name)
			}
		}
		return true
	})
}

func TestGenerateInsideRuntimePackage(t *testing.T) {
	pkg, err := parse.ParseSource("builtin.go", "package volt\ntype Builtin struct { ws Element }\n")
	require.NoError(t, err)
	pkg.Path = "github.com/arr-ai/volt"
	modules, err := pkg.Modules("Builtin")
	require.NoError(t, err)

	out, err := defaultGenerator().Source(pkg, modules)
	require.NoError(t, err)
	assert.Contains(t, string(out), "func BuiltinWs() Element {")
	assert.Contains(t, string(out), `NewRule(RuleID("Builtin::ws"), b.ws).DetectLeftRecursion()`)
	assert.NotContains(t, string(out), "volt.")
}

func TestGenerateCollisions(t *testing.T) {
	for _, test := range []struct {
		name, src string
		types     []string
		with      string
	}{
		{
			name:  "existing function",
			src:   "type A struct { b int }\nfunc AB() {}",
			types: []string{"A"},
			with:  "a package-level declaration",
		},
		{
			name:  "between fields",
			src:   "type A struct { b_c, bC int }",
			types: []string{"A"},
			with:  "the accessor of A::b_c",
		},
		{
			name:  "between modules",
			src:   "type A struct { b_c int }\ntype AB struct { c int }",
			types: []string{"A", "AB"},
			with:  "the accessor of A::b_c",
		},
		{
			name:  "field named like the method",
			src:   "type A struct { IntoRuleVec int }",
			types: []string{"A"},
			with:  "field IntoRuleVec",
		},
		{
			name:  "existing method",
			src:   "type A struct { b int }\nfunc (A) IntoRuleVec() {}",
			types: []string{"A"},
			with:  "an existing method",
		},
		{
			name:  "runtime name",
			src:   "type A struct { b int }\nvar volt = 1",
			types: []string{"A"},
			with:  "a package-level declaration",
		},
	} {
		test := test
		t.Run(test.name, func(t *testing.T) {
			pkg, err := parse.ParseSource("p.go", "package p\n"+test.src+"\n")
			require.NoError(t, err)
			modules, err := pkg.Modules(test.types...)
			require.NoError(t, err)

			_, err = defaultGenerator().Generate(pkg, modules)
			var collision CollisionError
			require.True(t, errors.As(err, &collision), "%v", err)
			assert.Equal(t, test.with, collision.With)
		})
	}
}

func TestGenerateReportsAllCollisions(t *testing.T) {
	pkg, err := parse.ParseSource("p.go", "package p\ntype A struct { b, c int }\nfunc AB() {}\nfunc AC() {}\n")
	require.NoError(t, err)
	modules, err := pkg.Modules("A")
	require.NoError(t, err)

	_, err = defaultGenerator().Generate(pkg, modules)
	var errs parse.Errors
	require.True(t, errors.As(err, &errs), "%v", err)
	assert.Len(t, errs, 2)
}

func TestGenerateInvalidRuntime(t *testing.T) {
	pkg, err := parse.ParseSource("p.go", "package p\ntype A struct{}\n")
	require.NoError(t, err)

	g := defaultGenerator()
	g.Runtime.Path = ""
	_, err = g.Generate(pkg, nil)
	assert.Error(t, err)
}

func TestGenerateNoCommandLine(t *testing.T) {
	out := generate(t, Generator{Runtime: config.DefaultRuntime()}, "package p\ntype A struct{}\n", "A")
	assert.Contains(t, out.src, "// Code generated by voltgen. DO NOT EDIT.")
	assert.True(t, ast.IsGenerated(out.file))
}
