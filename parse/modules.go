package parse

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/arr-ai/frozen"
	"github.com/sirupsen/logrus"
)

type typeDecl struct {
	spec *ast.TypeSpec
	doc  *ast.CommentGroup // doc of the enclosing declaration
}

// Modules returns the modules named by typeNames, in the order given. When
// typeNames is empty it returns every struct type carrying the module
// directive, in source order.
func (p *Package) Modules(typeNames ...string) ([]Module, error) {
	decls, order := p.typeDecls()
	methods := p.methods()

	var selected []string
	if len(typeNames) == 0 {
		for _, name := range order {
			d := decls[name]
			if hasDirective(p.directive(), d.spec.Doc, d.doc) {
				selected = append(selected, name)
			}
		}
	} else {
		seen := frozen.NewSet[string]()
		for _, name := range typeNames {
			if seen.Has(name) {
				continue
			}
			seen = seen.With(name)
			selected = append(selected, name)
		}
	}

	var errs Errors
	modules := make([]Module, 0, len(selected))
	for _, name := range selected {
		d, has := decls[name]
		if !has {
			errs = append(errs, declErrorf(TypeNotFound, name, token.Position{},
				"type %s not found in package %s", name, p.Name))
			continue
		}
		m, err := p.module(d.spec, methods[name])
		if err != nil {
			errs = append(errs, err.orNil())
			continue
		}
		logrus.WithField("type", m.Name).Debugf("found module with %d rule(s)", len(m.Fields))
		modules = append(modules, m)
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}
	return modules, nil
}

func (p *Package) directive() string {
	if p.Directive != "" {
		return p.Directive
	}
	return Directive
}

func (p *Package) module(spec *ast.TypeSpec, methods []string) (Module, Errors) {
	name := spec.Name.Name
	m := Module{Name: name, Pos: p.Fset.Position(spec.Pos()), Methods: methods}

	if spec.TypeParams != nil && len(spec.TypeParams.List) > 0 {
		return m, Errors{declErrorf(GenericType, name, m.Pos,
			"type %s has type parameters; rule modules cannot be generic", name)}
	}
	st, ok := spec.Type.(*ast.StructType)
	if !ok || spec.Assign.IsValid() {
		return m, Errors{declErrorf(NotAStruct, name, m.Pos,
			"type %s is not a struct; rule modules are only available for structs", name)}
	}

	var errs Errors
	for _, f := range st.Fields.List {
		pos := p.Fset.Position(f.Pos())
		typ := types.ExprString(f.Type)
		if len(f.Names) == 0 {
			errs = append(errs, declErrorf(UnnamedField, name, pos,
				"struct %s must have named fields (like `type %[1]s struct { expr volt.Element }`), found embedded %s",
				name, typ))
			continue
		}
		for _, ident := range f.Names {
			if ident.Name == "_" {
				errs = append(errs, declErrorf(BlankField, name, pos,
					"struct %s has a blank field; every rule needs a name", name))
				continue
			}
			m.Fields = append(m.Fields, Field{Name: ident.Name, Type: typ, Pos: p.Fset.Position(ident.Pos())})
		}
	}
	if len(errs) > 0 {
		return m, errs
	}
	return m, nil
}

func (p *Package) typeDecls() (map[string]typeDecl, []string) {
	decls := map[string]typeDecl{}
	var order []string
	for _, f := range p.Files {
		for _, decl := range f.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts := spec.(*ast.TypeSpec)
				var doc *ast.CommentGroup
				if len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				decls[ts.Name.Name] = typeDecl{spec: ts, doc: doc}
				order = append(order, ts.Name.Name)
			}
		}
	}
	return decls, order
}

func (p *Package) methods() map[string][]string {
	out := map[string][]string{}
	for _, f := range p.Files {
		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
				continue
			}
			if recv := receiverName(fn.Recv.List[0].Type); recv != "" {
				out[recv] = append(out[recv], fn.Name.Name)
			}
		}
	}
	return out
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.ParenExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

// Declared returns the package-level identifiers declared in the package.
// Methods are not included.
func (p *Package) Declared() frozen.Set[string] {
	names := frozen.NewSet[string]()
	for _, f := range p.Files {
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Recv == nil {
					names = names.With(d.Name.Name)
				}
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					switch s := spec.(type) {
					case *ast.TypeSpec:
						names = names.With(s.Name.Name)
					case *ast.ValueSpec:
						for _, n := range s.Names {
							if n.Name != "_" {
								names = names.With(n.Name)
							}
						}
					}
				}
			}
		}
	}
	return names
}
