// internal/form/renderer.go
//
// Formgate – Forms subsystem: HTML renderer.
//
// Context
//   Render is a pure function from Document to markup.  The same Document
//   always yields byte-identical output, which is what lets the gateway keep
//   a render cache keyed by form revision.  Assets are linked in declaration
//   order (bootstrap, custom CSS, jQuery, inline script), the submit control
//   carries the resolved label, and a #form-status placeholder is always
//   present for the client-side acknowledgement.
//
// Workflow
//   •  Every user-controlled string (labels, values, placeholders, titles,
//      descriptions) is HTML-escaped for its context.  Custom HTML bodies and
//      the inline script are the two deliberate exceptions; both are
//      operator-supplied code carried verbatim.
//   •  Fields render per the applicability predicates on FieldSpec: hidden
//      inputs emit no label and only a value, file inputs take no value or
//      placeholder.
//   •  Render fails closed.  A Document that somehow reaches it without
//      resolved options produces a RenderError, never partial markup.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"html"
)

// RenderError reports a Document that cannot be rendered.  Given the
// defaulting in Build this should not occur in practice; when it does the
// page is withheld entirely rather than emitted malformed.
type RenderError struct{ Reason string }

func (e *RenderError) Error() string { return "render: " + e.Reason }

// Render converts a Document into a complete HTML page.  Deterministic:
// identical Documents produce byte-identical markup across calls.
func Render(doc *Document) (string, error) {
	if doc == nil {
		return "", &RenderError{Reason: "nil document"}
	}
	opts := doc.Options
	if opts.SubmitLabel == "" || opts.FormID == "" || opts.FormName == "" {
		// Build always resolves options; an empty one here means the caller
		// constructed the Document by hand and skipped Resolve.
		return "", &RenderError{Reason: "document options not resolved"}
	}

	head := &headBuilder{}
	head.SetTitle(doc.PageTitle)
	head.Meta(`<meta charset="utf-8">`)
	head.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	head.Stylesheet(opts.Bootstrap)
	head.Stylesheet(opts.CSSFile)
	head.ScriptSrc(opts.JQuery)
	head.InlineScript(opts.Javascript)

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	buf.WriteString(head.String())
	buf.WriteString("</head>\n<body>\n")
	buf.WriteString(`<div class="container"><div class="page"><div class="form">` + "\n")
	buf.WriteString("<h1>" + html.EscapeString(doc.PageTitle) + "</h1>\n")
	buf.WriteString("<p>" + html.EscapeString(doc.PageDescription) + "</p>\n")

	buf.WriteString(`<form action="#" method="POST" id="` + html.EscapeString(opts.FormID) +
		`" name="` + html.EscapeString(opts.FormName) + `" enctype="multipart/form-data">` + "\n")
	buf.WriteString(`<div class="item">` + "\n")

	if doc.FormType == FormTypeCustomHTML {
		buf.WriteString(doc.RawHTML + "\n")
	} else {
		for i := range doc.Fields {
			writeField(&buf, &doc.Fields[i])
		}
	}

	buf.WriteString("</div>\n")
	buf.WriteString(`<div class="btn-block">` + "\n")
	buf.WriteString(`<button type="submit">` + html.EscapeString(opts.SubmitLabel) + "</button>\n")
	buf.WriteString("</div>\n</form>\n")
	buf.WriteString(`<p id="form-status" class="form-status"></p>` + "\n")
	buf.WriteString("</div></div></div>\n</body>\n</html>\n")
	return buf.String(), nil
}

// writeField emits the markup for one input control.  Hidden fields are
// emitted bare; everything else is wrapped in a form-group with its label.
func writeField(buf *bytes.Buffer, f *FieldSpec) {
	name := html.EscapeString(f.Name)
	id := "fld-" + name

	if f.InputType == InputHidden {
		buf.WriteString(`<input type="hidden" id="` + id + `" name="` + name + `"`)
		if f.Value != "" {
			buf.WriteString(` value="` + html.EscapeString(f.Value) + `"`)
		}
		buf.WriteString(">\n")
		return
	}

	buf.WriteString(`<div class="form-group">` + "\n")
	buf.WriteString(`<label for="` + id + `">` + html.EscapeString(f.Label) + "</label>\n")
	buf.WriteString(`<input type="` + string(f.InputType) + `" class="form-control" id="` + id + `" name="` + name + `"`)
	if f.Value != "" && f.AcceptsValue() {
		buf.WriteString(` value="` + html.EscapeString(f.Value) + `"`)
	}
	if f.Placeholder != "" && f.AcceptsPlaceholder() {
		buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
	}
	if f.Required {
		buf.WriteString(` required`)
	}
	if f.ReadOnly {
		buf.WriteString(` readonly`)
	}
	buf.WriteString(">\n</div>\n")
}
