package tutor

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed directive.yaml
var directiveYAML []byte

// DirectiveSet holds the base tutoring directive and the per-level
// clauses appended to it. Loaded once from the embedded corpus.
type DirectiveSet struct {
	Base   string            `yaml:"base"`
	Levels map[string]string `yaml:"levels"`
}

// LoadDirectives parses the embedded directive corpus.
func LoadDirectives() (DirectiveSet, error) {
	var ds DirectiveSet
	if err := yaml.Unmarshal(directiveYAML, &ds); err != nil {
		return DirectiveSet{}, fmt.Errorf("failed to parse directive corpus: %w", err)
	}
	if strings.TrimSpace(ds.Base) == "" {
		return DirectiveSet{}, fmt.Errorf("directive corpus has no base directive")
	}
	return ds, nil
}

// Compose returns the directive text for a request: the base directive
// plus the clause for the given level. Pure function. An unrecognized
// level yields the base directive alone; tutoring does not halt on a
// degenerate level value.
func (d DirectiveSet) Compose(level KnowledgeLevel) string {
	base := strings.TrimSpace(d.Base)
	clause, ok := d.Levels[string(level)]
	if !ok {
		return base
	}
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return base
	}
	return base + "\n\n" + clause
}
