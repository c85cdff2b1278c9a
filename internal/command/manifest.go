package command

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ManifestEntry declares one command in the YAML manifest.
type ManifestEntry struct {
	Handler     string   `yaml:"handler"`
	Names       []string `yaml:"names"`
	Kind        Kind     `yaml:"kind"`
	Description string   `yaml:"description"`
}

// Manifest is the on-disk registration table for commands. It replaces any
// runtime introspection: classification is data, bound to handler
// implementations registered in code.
type Manifest struct {
	Commands []ManifestEntry `yaml:"commands"`
}

// ParseManifest decodes a YAML manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse command manifest: %w", err)
	}
	return &m, nil
}

// LoadManifest reads and decodes a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read command manifest: %w", err)
	}
	return ParseManifest(data)
}

// Bind joins manifest entries to their handler implementations and returns
// the descriptor list ready for Resolve. Every entry must reference a
// registered handler, carry at least one name, and use a known kind;
// violations are configuration errors.
func (m *Manifest) Bind(handlers map[string]Handler) ([]Descriptor, error) {
	descriptors := make([]Descriptor, 0, len(m.Commands))
	for _, entry := range m.Commands {
		if len(entry.Names) == 0 {
			return nil, fmt.Errorf("command %q: %w", entry.Handler, ErrEmptyNames)
		}
		if entry.Kind != KindGeneric && entry.Kind != KindSpecialized {
			return nil, fmt.Errorf("command %q: unknown kind %q", entry.Handler, entry.Kind)
		}
		h, ok := handlers[entry.Handler]
		if !ok {
			return nil, fmt.Errorf("command %q: no registered handler", entry.Handler)
		}
		descriptors = append(descriptors, Descriptor{
			Names:       entry.Names,
			Kind:        entry.Kind,
			Description: entry.Description,
			Handler:     h,
		})
	}
	return descriptors, nil
}
