// internal/form/document.go
//
// Formgate – Forms subsystem: document builder.
//
// Context
//   A Document is the fully resolved, renderable representation of one form
//   page: title, description, resolved options, and either an ordered field
//   sequence or a literal custom-HTML body.  It is built fresh per display
//   request and discarded afterwards; nothing here is persisted.
//
// Workflow
//   •  Build validates the field sequence (SpecificationError on empty or
//      duplicate names), normalizes conditional attributes once, resolves
//      options, and returns the Document.
//   •  Missing optional values never fail the build; every option and field
//      attribute has a default substituted by the resolver.
//   •  Custom HTML is carried verbatim.  The caller owns its correctness;
//      no validation or sanitization is attempted here.
//
//------------------------------------------------------------------------------

package form

import "fmt"

// FormType selects how the form interior is produced.
type FormType string

const (
	// FormTypeBuilder renders the declared field sequence in order.
	FormTypeBuilder FormType = "formBuilder"
	// FormTypeCustomHTML uses a literal markup body supplied by the operator.
	FormTypeCustomHTML FormType = "customHTML"
)

// Document is the resolved, renderable unit handed to Render.
type Document struct {
	PageTitle       string
	PageDescription string
	FormType        FormType
	Fields          []FieldSpec // formBuilder only, order preserved exactly.
	RawHTML         string      // customHTML only, used verbatim.
	Options         FormOptions // Always fully resolved.
}

// Build assembles a Document from its parts.  Field order is preserved
// exactly as declared; identical input always yields an identical Document.
// The only failure modes are specification defects: an unknown form type or
// an invalid field sequence.
func Build(pageTitle, pageDescription string, formType FormType, fields []FieldSpec, rawHTML string, opts FormOptions) (*Document, error) {
	switch formType {
	case FormTypeBuilder, FormTypeCustomHTML:
	case "":
		formType = FormTypeBuilder
	default:
		return nil, &SpecificationError{Reason: fmt.Sprintf("unknown form type %q", formType)}
	}

	doc := &Document{
		PageTitle:       pageTitle,
		PageDescription: pageDescription,
		FormType:        formType,
		Options:         opts.Resolve(),
	}

	if formType == FormTypeCustomHTML {
		doc.RawHTML = rawHTML
		return doc, nil
	}

	if err := ValidateFields(fields); err != nil {
		return nil, err
	}

	// Copy before normalizing so the caller's slice stays untouched.
	doc.Fields = make([]FieldSpec, len(fields))
	copy(doc.Fields, fields)
	for i := range doc.Fields {
		doc.Fields[i].normalize()
	}
	return doc, nil
}
