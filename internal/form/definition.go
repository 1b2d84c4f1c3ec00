// internal/form/definition.go
//
// Formgate – Forms subsystem: YAML definition loader and registry.
//
// Context
//   Each form served by the gateway is declared in a YAML file.  The file
//   carries the form's identifier, page title and description, form type,
//   field sequence (or custom HTML body), and presentation options.  At boot
//   we parse every "*.yaml" under the configured forms directory into an
//   in-memory registry; display and ingest handlers fetch definitions by ID,
//   guaranteeing a single source of truth for one request.
//
// Workflow
//   •  Structs mirror the YAML schema: Definition → FieldSpec / FormOptions.
//   •  LoadDefinition parses a single file and validates structural rules,
//      so every SpecificationError surfaces at load time, not mid-request.
//   •  RegisterForms walks the base directory, loads each YAML, and adds it
//      to the registry.  Re-registering an ID bumps its revision, which the
//      gateway uses to invalidate cached renders.
//   •  Get offers safe, read-only access to a parsed definition by ID.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Definition is one declared form, loaded from YAML.  The ID is the path
// segment the gateway serves the form under, e.g. "/form/contact".
type Definition struct {
	ID              string      `yaml:"id"`              // Route identifier.  Required.
	PageTitle       string      `yaml:"pageTitle"`       // Heading and <title>.
	PageDescription string      `yaml:"pageDescription"` // Paragraph under the heading.
	FormType        FormType    `yaml:"formType"`        // formBuilder (default) or customHTML.
	Fields          []FieldSpec `yaml:"fields"`          // formBuilder field sequence.
	HTML            string      `yaml:"html"`            // customHTML body, verbatim.
	Options         FormOptions `yaml:"options"`

	// Revision counts registry overwrites for this ID.  Set by register;
	// never read from YAML.
	Revision int `yaml:"-"`
}

// Document builds the renderable Document for this definition.  Options are
// resolved inside Build, so the returned Document is render-ready.
func (d *Definition) Document() (*Document, error) {
	return Build(d.PageTitle, d.PageDescription, d.FormType, d.Fields, d.HTML, d.Options)
}

// registry maps form ID → *Definition.  Guarded by mutex.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Definition)
)

// Get returns a registered definition by ID.  The boolean is false when the
// ID is unknown.
func Get(id string) (*Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[id]
	return d, ok
}

// IDs returns the registered form IDs in unspecified order.  Used for boot
// logging and tests.
func IDs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	return out
}

// LoadDefinition parses one YAML file, validates its structure, and returns
// a populated Definition.  It never mutates the global registry.
func LoadDefinition(path string) (*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}

	var d Definition
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", path, err)
	}

	if err := validateDefinition(&d, path); err != nil {
		return nil, err
	}
	return &d, nil
}

// RegisterForms walks baseDir and loads every "*.yaml" it finds.  Load
// failures abort the walk so configuration defects surface loudly at boot
// instead of degrading a live form.
func RegisterForms(baseDir string) error {
	if baseDir == "" {
		return errors.New("RegisterForms: no base directory provided")
	}

	return filepath.WalkDir(baseDir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			return nil // skip non-YAML
		}

		d, err := LoadDefinition(path)
		if err != nil {
			return err
		}
		Register(d)
		return nil
	})
}

// Register inserts or overrides the definition in the global registry.  The
// caller must ensure the Definition passed validation.  Overwriting an ID
// bumps the revision so stale cached renders are never served.
func Register(d *Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if prev, ok := registry[d.ID]; ok {
		d.Revision = prev.Revision + 1
	}
	registry[d.ID] = d
}

// validateDefinition enforces rules that YAML tags cannot express.  Field
// sequence problems are reported as SpecificationErrors via ValidateFields.
func validateDefinition(d *Definition, path string) error {
	if d.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", path)
	}

	switch d.FormType {
	case "", FormTypeBuilder:
		if len(d.Fields) == 0 {
			return fmt.Errorf("form definition %s: formBuilder requires at least one field", path)
		}
		if d.HTML != "" {
			return fmt.Errorf("form definition %s: 'html' is only valid with formType customHTML", path)
		}
		if err := ValidateFields(d.Fields); err != nil {
			return fmt.Errorf("form definition %s: %w", path, err)
		}
	case FormTypeCustomHTML:
		if d.HTML == "" {
			return fmt.Errorf("form definition %s: customHTML requires 'html'", path)
		}
		if len(d.Fields) > 0 {
			return fmt.Errorf("form definition %s: cannot have both 'fields' and 'html'", path)
		}
	default:
		return fmt.Errorf("form definition %s: unknown formType %q", path, d.FormType)
	}

	return nil
}
