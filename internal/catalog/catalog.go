// Package catalog loads and validates the ESG metric catalog. Definitions
// are pure data: new metrics, patterns, and unit synonyms ship as YAML, not
// code.
package catalog

import (
	_ "embed"
	"os"
	"regexp"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/esg-cli/internal/model"
)

// ErrConfiguration marks malformed or duplicate metric definitions. Fatal
// for the run: a bad definition is never silently skipped.
var ErrConfiguration = eris.New("configuration error")

//go:embed defaults.yaml
var defaultCatalog []byte

// File is the on-disk catalog shape.
type File struct {
	Metrics []model.MetricDefinition `yaml:"metrics"`
}

// LoadDefault builds the registry from the embedded default catalog.
func LoadDefault() (*model.MetricRegistry, error) {
	return build(nil, defaultCatalog)
}

// Load reads the catalog at path. Additional paths extend or override the
// base catalog: a definition reusing an existing id replaces it, new ids
// append in file order. An empty path falls back to the embedded defaults.
func Load(path string, extra ...string) (*model.MetricRegistry, error) {
	base := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrap(err, "catalog: read file")
		}
		base = b
	}

	reg, err := build(extra, base)
	if err != nil {
		return nil, err
	}

	zap.L().Info("catalog: loaded",
		zap.Int("metrics", reg.Len()),
		zap.String("path", path),
		zap.Int("extensions", len(extra)),
	)
	return reg, nil
}

func build(extraPaths []string, base []byte) (*model.MetricRegistry, error) {
	defs, err := parse(base)
	if err != nil {
		return nil, err
	}

	for _, p := range extraPaths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, eris.Wrap(err, "catalog: read extension file")
		}
		extDefs, err := parse(b)
		if err != nil {
			return nil, err
		}
		defs = merge(defs, extDefs)
	}

	if err := validate(defs); err != nil {
		return nil, err
	}
	if err := compile(defs); err != nil {
		return nil, err
	}

	return model.NewMetricRegistry(defs), nil
}

func parse(b []byte) ([]model.MetricDefinition, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, configErrf("catalog: parse yaml: %v", err)
	}
	return f.Metrics, nil
}

// merge applies extension definitions over a base set: matching ids replace
// in place, new ids append preserving extension file order.
func merge(base, ext []model.MetricDefinition) []model.MetricDefinition {
	byID := make(map[string]int, len(base))
	for i, d := range base {
		byID[d.ID] = i
	}
	for _, d := range ext {
		if i, ok := byID[d.ID]; ok {
			base[i] = d
			continue
		}
		byID[d.ID] = len(base)
		base = append(base, d)
	}
	return base
}

func validate(defs []model.MetricDefinition) error {
	if len(defs) == 0 {
		return configErr("catalog defines no metrics")
	}

	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		switch {
		case d.ID == "":
			return configErr("metric with empty id")
		case seen[d.ID]:
			return configErrf("duplicate metric id %q", d.ID)
		case !d.Category.Valid():
			return configErrf("metric %q: unknown category %q", d.ID, d.Category)
		case !d.ExpectedKind.Valid():
			return configErrf("metric %q: unknown value kind %q", d.ID, d.ExpectedKind)
		case len(d.Patterns) == 0:
			return configErrf("metric %q: no patterns", d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}

func compile(defs []model.MetricDefinition) error {
	for i := range defs {
		d := &defs[i]
		d.CompiledPatterns = make([]*regexp.Regexp, 0, len(d.Patterns))
		for _, p := range d.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return configErrf("metric %q: invalid pattern %q: %v", d.ID, p, err)
			}
			d.CompiledPatterns = append(d.CompiledPatterns, re)
		}
	}
	return nil
}

func configErr(msg string) error {
	return eris.Wrap(ErrConfiguration, msg)
}

func configErrf(format string, args ...any) error {
	return eris.Wrapf(ErrConfiguration, format, args...)
}
