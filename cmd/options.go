package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/arr-ai/voltgen/config"
	"github.com/arr-ai/voltgen/parse"
)

// sourceOptions are shared by every command that reads a package.
type sourceOptions struct {
	dir        string
	types      string
	tags       string
	configFile string
	verbose    bool
}

func (o *sourceOptions) flags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:        "dir",
			Usage:       "directory of the package holding the rule modules",
			Value:       ".",
			TakesFile:   true,
			Destination: &o.dir,
		},
		cli.StringFlag{
			Name:        "type",
			Usage:       "comma-separated struct types to generate for; defaults to every type marked //volt:module",
			Destination: &o.types,
		},
		cli.StringFlag{
			Name:        "tags",
			Usage:       "comma-separated build tags to apply when loading the package",
			Destination: &o.tags,
		},
		cli.StringFlag{
			Name:        "config",
			Usage:       "config file; defaults to " + config.DefaultFile + " in the package directory if present",
			TakesFile:   true,
			Destination: &o.configFile,
		},
		cli.BoolFlag{
			Name:        "v",
			Usage:       "verbose logging",
			Destination: &o.verbose,
		},
	}
}

func (o *sourceOptions) typeNames() []string {
	return splitList(o.types)
}

func (o *sourceOptions) loadConfig() (config.Config, error) {
	if o.configFile != "" {
		return config.Load(o.configFile, true)
	}
	return config.Load(filepath.Join(o.dir, config.DefaultFile), false)
}

func (o *sourceOptions) setupLogging() {
	if o.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if file := os.Getenv("GOFILE"); file != "" {
		logrus.WithFields(logrus.Fields{
			"file":    file,
			"line":    os.Getenv("GOLINE"),
			"package": os.Getenv("GOPACKAGE"),
		}).Debug("invoked by go generate")
	}
}

// load reads the package and selects its modules.
func (o *sourceOptions) load(cfg config.Config) (*parse.Package, []parse.Module, error) {
	pkg, err := parse.Load(o.dir, splitList(o.tags)...)
	if err != nil {
		return nil, nil, err
	}
	pkg.Directive = cfg.Directive
	modules, err := pkg.Modules(o.typeNames()...)
	if err != nil {
		return nil, nil, err
	}
	return pkg, modules, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
