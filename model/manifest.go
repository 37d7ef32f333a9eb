package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skosovsky/unifai/constraint"
)

// ErrInvalidManifest is returned when a model manifest is malformed or incomplete.
var ErrInvalidManifest = errors.New("model: invalid manifest")

// fileManifest is the YAML manifest shape.
type fileManifest struct {
	Provider string  `yaml:"provider"` // default for entries without one
	Models   []Model `yaml:"models"`
}

// ParseBytes parses a YAML manifest listing one or more models.
func ParseBytes(data []byte) ([]Model, error) {
	var m fileManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return buildModels(&m)
}

// ParseFile reads and parses a manifest file.
func ParseFile(path string) ([]Model, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is validated by caller
	if err != nil {
		return nil, fmt.Errorf("model: read file: %w", err)
	}
	return ParseBytes(data)
}

// ParseFS reads and parses a manifest from fs.FS (e.g. embed.FS).
func ParseFS(fsys fs.FS, name string) ([]Model, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("model: read fs: %w", err)
	}
	return ParseBytes(data)
}

func buildModels(m *fileManifest) ([]Model, error) {
	if len(m.Models) == 0 {
		return nil, fmt.Errorf("%w: no models", ErrInvalidManifest)
	}
	seen := make(map[[2]string]bool, len(m.Models))
	out := make([]Model, 0, len(m.Models))
	for i, mod := range m.Models {
		if mod.ID == "" {
			return nil, fmt.Errorf("%w: model %d: missing id", ErrInvalidManifest, i)
		}
		if mod.Provider == "" {
			mod.Provider = m.Provider
		}
		if mod.Provider == "" {
			return nil, fmt.Errorf("%w: model %q: missing provider", ErrInvalidManifest, mod.ID)
		}
		key := [2]string{mod.Provider, mod.ID}
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate model %s/%s", ErrInvalidManifest, mod.Provider, mod.ID)
		}
		seen[key] = true
		if mod.DisplayName == "" {
			mod.DisplayName = mod.ID
		}
		if mod.Constraints == nil {
			mod.Constraints = constraint.Table{}
		}
		out = append(out, mod)
	}
	return out, nil
}
