// Package config holds the settings that tell voltgen which runtime package
// generated code refers to and where the output goes.
package config

import (
	"bytes"
	"errors"
	"go/token"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/thorn-jmh/errorst"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the package directory when no -config is given.
const DefaultFile = "voltgen.yaml"

// Runtime names the external rule package and the symbols generated code uses.
type Runtime struct {
	Path                string `yaml:"path"`
	Name                string `yaml:"name"`
	Element             string `yaml:"element"`
	RuleRef             string `yaml:"rule_ref"`
	RuleID              string `yaml:"rule_id"`
	Rule                string `yaml:"rule"`
	NewRule             string `yaml:"new_rule"`
	DetectLeftRecursion string `yaml:"detect_left_recursion"`
	RuleVec             string `yaml:"rule_vec"`
	ModuleAssist        string `yaml:"module_assist"`
	AssembleMethod      string `yaml:"assemble_method"`
}

type Config struct {
	Runtime   Runtime `yaml:"runtime"`
	Output    string  `yaml:"output"`
	Directive string  `yaml:"directive"`
}

func DefaultRuntime() Runtime {
	return Runtime{
		Path:                "github.com/arr-ai/volt",
		Name:                "volt",
		Element:             "Element",
		RuleRef:             "RuleRef",
		RuleID:              "RuleID",
		Rule:                "Rule",
		NewRule:             "NewRule",
		DetectLeftRecursion: "DetectLeftRecursion",
		RuleVec:             "RuleVec",
		ModuleAssist:        "ModuleAssist",
		AssembleMethod:      "IntoRuleVec",
	}
}

func Default() Config {
	return Config{
		Runtime:   DefaultRuntime(),
		Output:    "volt_gen.go",
		Directive: "volt:module",
	}
}

// Read decodes YAML on top of the defaults. Unknown keys are rejected.
func Read(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errorst.Wrap(err, "failed to decode config")
	}
	return cfg, nil
}

// Load reads the config file at path. A missing file yields the defaults
// unless required is set.
func Load(path string, required bool) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return Default(), nil
		}
		return Config{}, errorst.Wrap(err, "failed to read config %s", path)
	}
	cfg, err := Read(bytes.NewReader(data))
	if err != nil {
		return Config{}, errorst.Wrap(err, "in %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if !strings.HasSuffix(c.Output, ".go") && c.Output != "-" {
		return errorst.NewError("output %q must be a .go file or -", c.Output)
	}
	if strings.TrimSpace(c.Directive) == "" {
		return errorst.NewError("directive must not be empty")
	}
	return c.Runtime.Validate()
}

func (r Runtime) Validate() error {
	if r.Path == "" {
		return errorst.NewError("runtime path must not be empty")
	}
	for _, sym := range []struct{ key, value string }{
		{"name", r.Name},
		{"element", r.Element},
		{"rule_ref", r.RuleRef},
		{"rule_id", r.RuleID},
		{"rule", r.Rule},
		{"new_rule", r.NewRule},
		{"detect_left_recursion", r.DetectLeftRecursion},
		{"rule_vec", r.RuleVec},
		{"module_assist", r.ModuleAssist},
		{"assemble_method", r.AssembleMethod},
	} {
		if !token.IsIdentifier(sym.value) {
			return errorst.NewError("runtime %s %q is not a Go identifier", sym.key, sym.value)
		}
	}
	if !token.IsExported(r.AssembleMethod) {
		return errorst.NewError("assemble method %q must be exported", r.AssembleMethod)
	}
	return nil
}
