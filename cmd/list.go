package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/arr-ai/voltgen/cmd/codegen"
	"github.com/arr-ai/voltgen/gotree"
	"github.com/arr-ai/voltgen/parse"
)

var listOpts sourceOptions
var listCommand = cli.Command{
	Name:    "list",
	Aliases: []string{"l"},
	Usage:   "List the rule modules of a package and the rules they register",
	Action: func(c *cli.Context) error {
		return listOpts.list(os.Stdout)
	},
	Flags: listOpts.flags(),
}

func (o *sourceOptions) list(w io.Writer) error {
	o.setupLogging()

	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	pkg, modules, err := o.load(cfg)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, moduleTree(pkg, modules).Print())
	return err
}

func moduleTree(pkg *parse.Package, modules []parse.Module) *gotree.Tree {
	root := pkg.Name
	if pkg.Path != "" {
		root = fmt.Sprintf("%s (%s)", pkg.Name, pkg.Path)
	}
	tree := gotree.New(root)
	for _, m := range modules {
		branch := tree.Add(fmt.Sprintf("%s [%d rule(s)]", m.Name, len(m.Fields)))
		for _, f := range m.Fields {
			branch.Add(fmt.Sprintf("%s -> %s()", codegen.RuleID(m.Name, f.Name), codegen.AccessorName(m.Name, f.Name)))
		}
	}
	return tree
}
