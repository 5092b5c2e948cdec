// Package templates holds the server-side document template registry.
// Templates are versioned configuration, loaded once at startup and validated
// for structural well-formedness; they are never mutated per document.
package templates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/akarpov/docflow/internal/app/models"
)

// Part is a single element of a template: either a literal text fragment or
// a named input slot with an owner role responsible for supplying its value.
type Part struct {
	Text  string `yaml:"text,omitempty"`
	Field string `yaml:"field,omitempty"`
	Owner string `yaml:"owner,omitempty"`
}

// IsField reports whether the part is a named input slot.
func (p Part) IsField() bool {
	return p.Field != ""
}

// Template is a named, immutable, ordered sequence of parts.
type Template struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Parts []Part `yaml:"parts"`

	owners map[string]models.RoleType
}

// FieldOwner returns the owner role declared for the given input slot.
func (t *Template) FieldOwner(name string) (models.RoleType, bool) {
	role, ok := t.owners[name]
	return role, ok
}

// FieldNames returns the declared input slot names in template order.
func (t *Template) FieldNames() []string {
	names := make([]string, 0, len(t.owners))
	for _, p := range t.Parts {
		if p.IsField() {
			names = append(names, p.Field)
		}
	}
	return names
}

// Registry resolves template names to validated templates.
type Registry struct {
	templates map[string]*Template
}

type registryFile struct {
	Templates []*Template `yaml:"templates"`
}

// Load reads and validates the template registry from a YAML file.
// A malformed registry is a startup error; the server must not run with
// templates whose slots lack a name or an owner role.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template registry: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse template registry: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("template registry %s declares no templates", path)
	}

	reg := &Registry{templates: make(map[string]*Template, len(file.Templates))}
	for _, tpl := range file.Templates {
		if err := validate(tpl); err != nil {
			return nil, err
		}
		if _, exists := reg.templates[tpl.Name]; exists {
			return nil, fmt.Errorf("duplicate template name %q", tpl.Name)
		}
		reg.templates[tpl.Name] = tpl
	}

	return reg, nil
}

// NewRegistry builds a registry from in-memory templates. Used by tests and seeding.
func NewRegistry(tpls ...*Template) (*Registry, error) {
	reg := &Registry{templates: make(map[string]*Template, len(tpls))}
	for _, tpl := range tpls {
		if err := validate(tpl); err != nil {
			return nil, err
		}
		if _, exists := reg.templates[tpl.Name]; exists {
			return nil, fmt.Errorf("duplicate template name %q", tpl.Name)
		}
		reg.templates[tpl.Name] = tpl
	}
	return reg, nil
}

// Get returns the template registered under the given name.
func (r *Registry) Get(name string) (*Template, bool) {
	tpl, ok := r.templates[name]
	return tpl, ok
}

// Names returns all registered template names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}

func validate(tpl *Template) error {
	if tpl.Name == "" {
		return fmt.Errorf("template with empty name")
	}
	if len(tpl.Parts) == 0 {
		return fmt.Errorf("template %q has no parts", tpl.Name)
	}

	tpl.owners = make(map[string]models.RoleType)
	for i, p := range tpl.Parts {
		switch {
		case p.IsField():
			if p.Text != "" {
				return fmt.Errorf("template %q part %d is both text and field", tpl.Name, i)
			}
			role, ok := models.ParseRole(p.Owner)
			if !ok || role == models.RoleCurator {
				return fmt.Errorf("template %q field %q has invalid owner role %q", tpl.Name, p.Field, p.Owner)
			}
			if _, dup := tpl.owners[p.Field]; dup {
				return fmt.Errorf("template %q declares field %q twice", tpl.Name, p.Field)
			}
			tpl.owners[p.Field] = role
		case p.Text != "":
			// literal fragment
		default:
			return fmt.Errorf("template %q part %d is empty", tpl.Name, i)
		}
	}

	return nil
}
