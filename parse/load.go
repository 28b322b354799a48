package parse

import (
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/thorn-jmh/errorst"
	"golang.org/x/tools/go/packages"
)

// GeneratedBy is the tool name written into the header of generated files.
// Files carrying it are skipped when a package is loaded so that a stale
// output never shadows the declarations it was generated from.
const GeneratedBy = "voltgen"

// Package is the parsed source of one Go package.
type Package struct {
	Name  string
	Path  string // import path, empty when unknown
	Dir   string
	Fset  *token.FileSet
	Files []*ast.File

	// Directive overrides the default module directive when set.
	Directive string
}

// Load parses the non-test Go files of the package in dir.
func Load(dir string, buildTags ...string) (*Package, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:  dir,
		Fset: fset,
	}
	if len(buildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(buildTags, ",")}
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, errorst.Wrap(err, "failed to load package in %s", dir)
	}
	if len(pkgs) != 1 {
		return nil, errorst.NewError("expected exactly one package in %s, found %d", dir, len(pkgs))
	}
	p := pkgs[0]
	for _, e := range p.Errors {
		if e.Kind == packages.ParseError {
			return nil, errorst.NewError("package %s: %s", p.PkgPath, e.Msg)
		}
		// Unresolved imports are expected: only the syntax is needed.
		logrus.WithField("package", p.PkgPath).Debugf("ignoring load error: %s", e)
	}
	if len(p.Syntax) == 0 {
		return nil, errorst.NewError("no Go files in %s", dir)
	}

	pkg := &Package{Name: p.Name, Path: p.PkgPath, Dir: dir, Fset: fset}
	for _, f := range p.Syntax {
		if isOwnOutput(f) {
			logrus.Debugf("skipping generated file %s", fset.Position(f.Package).Filename)
			continue
		}
		pkg.Files = append(pkg.Files, f)
	}
	pkg.sortFiles()
	return pkg, nil
}

// ParseSource parses a single file held in memory.
func ParseSource(filename, src string) (*Package, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, errorst.Wrap(err, "failed to parse %s", filename)
	}
	return &Package{Name: f.Name.Name, Fset: fset, Files: []*ast.File{f}}, nil
}

func (p *Package) sortFiles() {
	sort.SliceStable(p.Files, func(i, j int) bool {
		return p.filename(p.Files[i]) < p.filename(p.Files[j])
	})
}

func (p *Package) filename(f *ast.File) string {
	return p.Fset.Position(f.Package).Filename
}

func isOwnOutput(f *ast.File) bool {
	if !ast.IsGenerated(f) {
		return false
	}
	for _, g := range f.Comments {
		if g.Pos() > f.Package {
			break
		}
		for _, c := range g.List {
			if strings.HasPrefix(c.Text, "// Code generated by "+GeneratedBy) {
				return true
			}
		}
	}
	return false
}
