// internal/form/options.go
//
// Formgate – Forms subsystem: presentation options and defaults.
//
// Context
//   FormOptions carries every recognized presentation and behavior knob for
//   one form.  Operators rarely set more than one or two of these, so each
//   has a documented default that Resolve substitutes for any absent value.
//   Absence always falls back to the default, never to an empty string.
//
// Workflow
//   •  Resolve returns a fully-populated copy; the input is never mutated.
//   •  The default inline script is generated against the resolved form id,
//      so a custom formId still gets a working submit handler.
//
//------------------------------------------------------------------------------

package form

// Documented option defaults.  Tests assert these exact values, so treat any
// change as a breaking one.
const (
	DefaultSubmitLabel = "Submit"
	DefaultCSSFile     = "https://joffcom.github.io/style.css"
	DefaultBootstrap   = "https://maxcdn.bootstrapcdn.com/bootstrap/4.0.0-beta/css/bootstrap.min.css"
	DefaultJQuery      = "https://ajax.googleapis.com/ajax/libs/jquery/3.1.1/jquery.min.js"
	DefaultFormID      = "n8n-form"
	DefaultFormName    = "n8n-form"
)

// FormOptions is the recognized presentation and behavior configuration for
// one form.  DetailedBody switches the assembled event between the flat and
// the wrapped shape; BinaryPropertyName overrides the attachment key prefix.
type FormOptions struct {
	SubmitLabel        string `yaml:"submitLabel"`
	CSSFile            string `yaml:"cssFile"`
	Bootstrap          string `yaml:"bootstrap"`
	JQuery             string `yaml:"jQuery"`
	Javascript         string `yaml:"javascript"` // Inline submit-handler script.
	FormID             string `yaml:"formId"`
	FormName           string `yaml:"formName"`
	DetailedBody       bool   `yaml:"detailedBody"`
	BinaryPropertyName string `yaml:"binaryPropertyName"`
}

// Resolve fills every absent option with its documented default and returns
// the completed copy.  DetailedBody and BinaryPropertyName keep their zero
// values; false and "" are their defaults.
func (o FormOptions) Resolve() FormOptions {
	if o.SubmitLabel == "" {
		o.SubmitLabel = DefaultSubmitLabel
	}
	if o.CSSFile == "" {
		o.CSSFile = DefaultCSSFile
	}
	if o.Bootstrap == "" {
		o.Bootstrap = DefaultBootstrap
	}
	if o.JQuery == "" {
		o.JQuery = DefaultJQuery
	}
	if o.FormID == "" {
		o.FormID = DefaultFormID
	}
	if o.FormName == "" {
		o.FormName = DefaultFormName
	}
	if o.Javascript == "" {
		o.Javascript = defaultScript(o.FormID)
	}
	return o
}

// defaultScript returns the built-in client-side submit handler.  It posts
// the form via FormData so file inputs survive, then writes the outcome into
// the #form-status placeholder that the renderer always emits.
func defaultScript(formID string) string {
	return `$(document).ready(function () {
  $('#` + formID + `').on('submit', function (e) {
    e.preventDefault();
    var data = new FormData(this);
    $.ajax({
      type: 'POST',
      url: window.location.pathname,
      data: data,
      processData: false,
      contentType: false,
      success: function () {
        $('#form-status').text('Thanks, your submission was received.');
      },
      error: function () {
        $('#form-status').text('Something went wrong, please try again.');
      }
    });
  });
});`
}
