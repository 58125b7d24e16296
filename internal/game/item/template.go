package item

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Template defines the static properties of a predefined item loaded from YAML.
type Template struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Category   string         `yaml:"category"`
	Stackable  bool           `yaml:"stackable"`
	Properties map[string]any `yaml:"properties"`
}

// Validate checks that the Template satisfies its invariants.
//
// Precondition: t is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validCategories[t.Category] {
		errs = append(errs, fmt.Errorf("Category must be one of weapon, armor, consumable, material, quest, misc; got %q", t.Category))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item template validation failed: %v", errs)
	}
	return nil
}

// Instantiate creates a runtime Item from this template with a fresh instance ID.
//
// Postcondition: The returned item shares no mutable state with the template.
func (t *Template) Instantiate() *Item {
	it := New(t.Name, t.Category)
	it.Stackable = t.Stackable
	for k, v := range t.Properties {
		it.SetProp(k, v)
	}
	return it
}

// Registry holds item templates keyed by template ID.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Register adds t to the registry, overwriting any existing entry with the same ID.
//
// Precondition: t must not be nil and t.ID must not be empty.
func (r *Registry) Register(t *Template) {
	r.templates[t.ID] = t
}

// Get returns the Template for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	return len(r.templates)
}

// LoadDirectory reads all *.yaml and *.yml files from dir, parses each as a
// Template, validates it, and returns a populated Registry.
//
// Precondition: dir is a readable directory path.
// Postcondition: Returns a non-nil Registry or the first encountered error.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading item dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var t Template
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("invalid item in %q: %w", path, err)
		}
		reg.Register(&t)
	}
	return reg, nil
}
