package codegen

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arr-ai/frozen"
	"github.com/dave/jennifer/jen"
	"github.com/sirupsen/logrus"

	"github.com/arr-ai/voltgen/config"
	"github.com/arr-ai/voltgen/parse"
)

// Generator emits the accessors and the assembly method of rule modules.
type Generator struct {
	Runtime config.Runtime

	// CommandLine is echoed into the generated header.
	CommandLine string
}

func (g Generator) header() string {
	if g.CommandLine == "" {
		return fmt.Sprintf("Code generated by %s. DO NOT EDIT.", parse.GeneratedBy)
	}
	return fmt.Sprintf("Code generated by %s %s. DO NOT EDIT.", parse.GeneratedBy, g.CommandLine)
}

// Generate builds one file holding the code for every module, in order.
func (g Generator) Generate(pkg *parse.Package, modules []parse.Module) (*jen.File, error) {
	if err := g.Runtime.Validate(); err != nil {
		return nil, err
	}
	if err := g.checkNames(pkg, modules); err != nil {
		return nil, err
	}

	var f *jen.File
	if pkg.Path != "" {
		f = jen.NewFilePathName(pkg.Path, pkg.Name)
	} else {
		f = jen.NewFile(pkg.Name)
	}
	f.HeaderComment(g.header())
	f.ImportName(g.Runtime.Path, g.Runtime.Name)

	for _, m := range modules {
		g.accessors(f, m)
		g.assembly(f, m)
		logrus.WithField("type", m.Name).Debugf("generated %d accessor(s)", len(m.Fields))
	}
	return f, nil
}

func (g Generator) ruleID(module, field string) *jen.Statement {
	return jen.Qual(g.Runtime.Path, g.Runtime.RuleID).Call(jen.Lit(RuleID(module, field)))
}

func (g Generator) accessors(f *jen.File, m parse.Module) {
	rt := g.Runtime
	for _, field := range m.Fields {
		name := AccessorName(m.Name, field.Name)
		f.Commentf("%s refers to the rule %s.", name, RuleID(m.Name, field.Name))
		f.Func().Id(name).Params().Qual(rt.Path, rt.Element).Block(
			jen.Return(jen.Qual(rt.Path, rt.RuleRef).Call(g.ruleID(m.Name, field.Name))),
		)
	}
}

func (g Generator) assembly(f *jen.File, m parse.Module) {
	rt := g.Runtime
	recv := receiverName(m.Name, rt.Name)
	local := sliceName(rt.Name)

	f.Commentf("%s collects the rules of %s in declaration order.", rt.AssembleMethod, m.Name)
	f.Func().Params(jen.Id(recv).Id(m.Name)).Id(rt.AssembleMethod).Params().Qual(rt.Path, rt.RuleVec).BlockFunc(
		func(grp *jen.Group) {
			grp.Id(local).Op(":=").Make(jen.Index().Qual(rt.Path, rt.Rule), jen.Lit(0), jen.Lit(len(m.Fields)))
			for _, field := range m.Fields {
				rule := jen.Qual(rt.Path, rt.NewRule).Call(g.ruleID(m.Name, field.Name), jen.Id(recv).Dot(field.Name))
				grp.Id(local).Op("=").Append(jen.Id(local), rule.Dot(rt.DetectLeftRecursion).Call())
			}
			grp.Return(jen.Qual(rt.Path, rt.RuleVec).Call(jen.Id(local)))
		},
	)
	f.Line()
	f.Var().Id("_").Qual(rt.Path, rt.ModuleAssist).Op("=").Id(m.Name).Values()
}

func (g Generator) checkNames(pkg *parse.Package, modules []parse.Module) error {
	declared := pkg.Declared()
	owners := map[string]string{}
	var errs parse.Errors

	if declared.Has(g.Runtime.Name) && pkg.Path != g.Runtime.Path {
		errs = append(errs, CollisionError{
			Name: g.Runtime.Name,
			Type: "the runtime import",
			With: "a package-level declaration",
		})
	}

	for _, m := range modules {
		for _, field := range m.Fields {
			name := AccessorName(m.Name, field.Name)
			id := RuleID(m.Name, field.Name)
			switch {
			case declared.Has(name):
				errs = append(errs, CollisionError{Name: name, Type: id, Pos: field.Pos, With: "a package-level declaration"})
			case owners[name] != "":
				errs = append(errs, CollisionError{Name: name, Type: id, Pos: field.Pos, With: "the accessor of " + owners[name]})
			default:
				owners[name] = id
			}
		}

		fields := frozen.NewSet(m.FieldNames()...)
		methods := frozen.NewSet(m.Methods...)
		method := g.Runtime.AssembleMethod
		if fields.Has(method) {
			errs = append(errs, CollisionError{Name: method, Type: m.Name, Pos: m.Pos, With: "field " + method})
		}
		if methods.Has(method) {
			errs = append(errs, CollisionError{Name: method, Type: m.Name, Pos: m.Pos, With: "an existing method"})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errs
}

// Render writes the formatted source of f.
func Render(f *jen.File, w io.Writer) error {
	return f.Render(w)
}

// Source generates and renders in one step.
func (g Generator) Source(pkg *parse.Package, modules []parse.Module) ([]byte, error) {
	f, err := g.Generate(pkg, modules)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Render(f, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
