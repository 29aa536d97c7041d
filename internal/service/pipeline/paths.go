package pipeline

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

//go:embed paths.yaml
var pathsYAML []byte

// PathDefinition declares what a path executes.
type PathDefinition struct {
	Steps     []string `yaml:"steps"`
	Consensus bool     `yaml:"consensus"`
	Report    bool     `yaml:"report"`
}

type pathsFile struct {
	Paths map[string]PathDefinition `yaml:"paths"`
}

// LoadPathDefinitions parses the embedded path table. Every known path
// must be declared with at least one step.
func LoadPathDefinitions() (map[core.Path]PathDefinition, error) {
	var file pathsFile
	if err := yaml.Unmarshal(pathsYAML, &file); err != nil {
		return nil, fmt.Errorf("parsing path definitions: %w", err)
	}

	defs := make(map[core.Path]PathDefinition, len(file.Paths))
	for name, def := range file.Paths {
		path, err := core.ParsePath(name)
		if err != nil {
			return nil, fmt.Errorf("path definitions: %w", err)
		}
		if len(def.Steps) == 0 {
			return nil, fmt.Errorf("path definitions: %s has no steps", name)
		}
		defs[path] = def
	}

	for _, p := range core.AllPaths() {
		if _, ok := defs[p]; !ok {
			return nil, fmt.Errorf("path definitions: missing %s", p)
		}
	}
	return defs, nil
}
