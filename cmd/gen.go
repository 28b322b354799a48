package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/thorn-jmh/errorst"
	"github.com/urfave/cli"

	"github.com/arr-ai/voltgen/cmd/codegen"
)

type genOptions struct {
	sourceOptions
	output  string
	runtime string
	check   bool
}

var genOpts genOptions
var genCommand = cli.Command{
	Name:    "gen",
	Aliases: []string{"g"},
	Usage:   "Generate rule accessors and the assembly method",
	Action: func(c *cli.Context) error {
		return genOpts.run(strings.Join(os.Args[1:], " "), os.Stdout)
	},
	Flags: append(genOpts.flags(),
		cli.StringFlag{
			Name:        "output",
			Usage:       "file to write, relative to -dir, or - for stdout",
			Destination: &genOpts.output,
		},
		cli.StringFlag{
			Name:        "runtime",
			Usage:       "import path of the rule runtime package",
			Destination: &genOpts.runtime,
		},
		cli.BoolFlag{
			Name:        "check",
			Usage:       "fail if the generated file is missing or out of date instead of writing it",
			Destination: &genOpts.check,
		},
	),
}

func (o *genOptions) run(commandLine string, stdout io.Writer) error {
	o.setupLogging()

	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	if o.output != "" {
		cfg.Output = o.output
	}
	if o.runtime != "" {
		cfg.Runtime.Path = o.runtime
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if o.check && cfg.Output == "-" {
		return errorst.NewError("-check compares against the output file and cannot be used with -output -")
	}

	pkg, modules, err := o.load(cfg)
	if err != nil {
		return err
	}
	if len(modules) == 0 {
		logrus.Warnf("no rule modules found in package %s", pkg.Name)
		return nil
	}

	g := codegen.Generator{Runtime: cfg.Runtime, CommandLine: commandLine}
	out, err := g.Source(pkg, modules)
	if err != nil {
		return err
	}

	if cfg.Output == "-" {
		_, err := stdout.Write(out)
		return err
	}
	path := cfg.Output
	if !filepath.IsAbs(path) {
		path = filepath.Join(o.dir, path)
	}
	if o.check {
		return checkOutput(path, out)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return errorst.Wrap(err, "failed to write %s", path)
	}
	logrus.Infof("wrote %d module(s) to %s", len(modules), path)
	return nil
}

func checkOutput(path string, want []byte) error {
	have, err := os.ReadFile(path)
	if err != nil {
		return errorst.Wrap(err, "failed to read %s", path)
	}
	if !bytes.Equal(have, want) {
		return errorst.NewError("%s is out of date; run voltgen gen", path)
	}
	logrus.Debugf("%s is up to date", path)
	return nil
}
