// internal/form/field.go
//
// Formgate – Forms subsystem: field specification model.
//
// Context
//   A FieldSpec describes one input control on a rendered form page.  The
//   gateway receives these from the definition store (definition.go), builds
//   a Document from them (document.go), and the renderer turns the Document
//   into markup (renderer.go).  The submission key on POST is the field Name,
//   so Name must be non-empty and unique within a form.
//
// Workflow
//   •  InputType is a closed enum; unknown values are a SpecificationError.
//   •  Attribute applicability is decided here, once, at build time: hidden
//      fields carry no label, file fields carry no value or placeholder, and
//      placeholders are restricted to free-text types.  The renderer simply
//      consults these predicates instead of branching on type strings.
//   •  ValidateFields enforces the structural invariants and returns a
//      SpecificationError naming the offending field.
//
// Style
//   Comments follow the house guide: full sentences, two spaces after
//   periods, and Oxford commas.
//
//------------------------------------------------------------------------------

package form

import "fmt"

// InputType enumerates the supported HTML input types.
type InputType string

const (
	InputText     InputType = "text"
	InputEmail    InputType = "email"
	InputPassword InputType = "password"
	InputDate     InputType = "date"
	InputHidden   InputType = "hidden"
	InputFile     InputType = "file"
)

// knownInputTypes gates the enum.  Anything else fails field validation.
var knownInputTypes = map[InputType]bool{
	InputText:     true,
	InputEmail:    true,
	InputPassword: true,
	InputDate:     true,
	InputHidden:   true,
	InputFile:     true,
}

// FieldSpec declares a single input control.  Name doubles as the HTML
// control name and the ingestion key, so it is required and must be unique
// within one form.  All other attributes are optional with zero-value
// defaults.
type FieldSpec struct {
	Label       string    `yaml:"label"`       // Display text.  Omitted from markup for hidden fields.
	Name        string    `yaml:"name"`        // Control name and ingestion key.  Required, unique.
	InputType   InputType `yaml:"inputType"`   // Defaults to "text" when blank.
	Value       string    `yaml:"value"`       // Pre-filled default.  Non-file types only.
	Placeholder string    `yaml:"placeholder"` // Free-text types only.
	Required    bool      `yaml:"required"`
	ReadOnly    bool      `yaml:"readOnly"`
}

// WantsLabel reports whether the renderer should emit a <label> element.
// Hidden inputs never get one.
func (f *FieldSpec) WantsLabel() bool { return f.InputType != InputHidden }

// AcceptsValue reports whether a pre-filled value attribute is applicable.
func (f *FieldSpec) AcceptsValue() bool { return f.InputType != InputFile }

// AcceptsPlaceholder reports whether a placeholder attribute is applicable.
// Only the free-text types take one.
func (f *FieldSpec) AcceptsPlaceholder() bool {
	switch f.InputType {
	case InputText, InputEmail, InputPassword:
		return true
	}
	return false
}

// normalize fills the default input type and strips attributes that do not
// apply to the declared type.  Called once during Build so the renderer can
// trust every attribute it sees.
func (f *FieldSpec) normalize() {
	if f.InputType == "" {
		f.InputType = InputText
	}
	if !f.AcceptsValue() {
		f.Value = ""
	}
	if !f.AcceptsPlaceholder() {
		f.Placeholder = ""
	}
}

// SpecificationError reports a field or option that fails required
// constraints.  It surfaces to the operator configuring the form, never to
// the end submitter, and is raised at build or load time.
type SpecificationError struct {
	Field  string // Offending field name.  May be empty for form-level issues.
	Reason string
}

func (e *SpecificationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("form specification: %s", e.Reason)
	}
	return fmt.Sprintf("form specification: field %q: %s", e.Field, e.Reason)
}

// ValidateFields enforces the structural invariants of a field sequence:
// every Name non-empty, no duplicates, and a recognized input type.
// Duplicate names would make later ingestion ambiguous, so they are rejected
// here rather than silently overwritten.
func ValidateFields(fields []FieldSpec) error {
	seen := make(map[string]struct{}, len(fields))
	for i := range fields {
		f := &fields[i]
		if f.Name == "" {
			return &SpecificationError{Reason: fmt.Sprintf("field at position %d is missing 'name'", i)}
		}
		if f.InputType != "" && !knownInputTypes[f.InputType] {
			return &SpecificationError{Field: f.Name, Reason: fmt.Sprintf("unknown input type %q", f.InputType)}
		}
		if _, dup := seen[f.Name]; dup {
			return &SpecificationError{Field: f.Name, Reason: "duplicate field name"}
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
