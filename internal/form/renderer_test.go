// internal/form/renderer_test.go
//
// Unit-tests for the Document builder and HTML renderer.
//
// Context
// -------
// The renderer's contract is deterministic output: the same Document must
// yield byte-identical markup.  These tests also pin the documented option
// defaults, the label-omission rule for hidden fields, declaration-order
// asset links, and escaping of user-controlled strings.

package form

import (
	"errors"
	"strings"
	"testing"
)

func buildTestDoc(t *testing.T, fields []FieldSpec, opts FormOptions) *Document {
	t.Helper()
	doc, err := Build("Test Form", "Fill out the form below.", FormTypeBuilder, fields, "", opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return doc
}

func TestRender_Deterministic(t *testing.T) {
	fields := []FieldSpec{
		{Label: "Name", Name: "name", InputType: InputText, Required: true},
		{Label: "Email", Name: "email", InputType: InputEmail},
		{Name: "token", InputType: InputHidden, Value: "abc"},
	}

	doc := buildTestDoc(t, fields, FormOptions{})
	first, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Render(doc)
		if err != nil {
			t.Fatalf("Render #%d: %v", i, err)
		}
		if again != first {
			t.Fatalf("render #%d differs from first render", i)
		}
	}
}

func TestRender_DocumentedDefaults(t *testing.T) {
	doc := buildTestDoc(t, []FieldSpec{{Label: "Name", Name: "name"}}, FormOptions{})
	page, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		`<button type="submit">Submit</button>`,
		`href="https://joffcom.github.io/style.css"`,
		`src="https://ajax.googleapis.com/ajax/libs/jquery/3.1.1/jquery.min.js"`,
		`id="n8n-form"`,
		`name="n8n-form"`,
		`id="form-status"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestRender_AssetDeclarationOrder(t *testing.T) {
	doc := buildTestDoc(t, []FieldSpec{{Label: "Name", Name: "name"}}, FormOptions{})
	page, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	bootstrap := strings.Index(page, DefaultBootstrap)
	css := strings.Index(page, DefaultCSSFile)
	jquery := strings.Index(page, DefaultJQuery)
	inline := strings.Index(page, "<script>\n")

	if bootstrap == -1 || css == -1 || jquery == -1 || inline == -1 {
		t.Fatalf("missing asset reference: bootstrap=%d css=%d jquery=%d inline=%d",
			bootstrap, css, jquery, inline)
	}
	if !(bootstrap < css && css < jquery && jquery < inline) {
		t.Fatalf("assets out of declaration order: bootstrap=%d css=%d jquery=%d inline=%d",
			bootstrap, css, jquery, inline)
	}
}

func TestRender_HiddenFieldHasNoLabel(t *testing.T) {
	doc := buildTestDoc(t, []FieldSpec{
		{Label: "Secret", Name: "secret", InputType: InputHidden, Value: "v"},
		{Label: "Name", Name: "name", InputType: InputText},
	}, FormOptions{})

	page, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(page, ">Secret</label>") {
		t.Error("hidden field contributed a label")
	}
	if !strings.Contains(page, `<input type="hidden" id="fld-secret" name="secret" value="v">`) {
		t.Error("hidden input missing or malformed")
	}
	if !strings.Contains(page, ">Name</label>") {
		t.Error("visible field label missing")
	}
}

func TestRender_FileFieldDropsValueAndPlaceholder(t *testing.T) {
	doc := buildTestDoc(t, []FieldSpec{
		{Label: "Resume", Name: "resume", InputType: InputFile, Value: "x", Placeholder: "y", Required: true},
	}, FormOptions{})

	page, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(page, `value="x"`) || strings.Contains(page, `placeholder="y"`) {
		t.Error("file input carried value or placeholder")
	}
	if !strings.Contains(page, `type="file"`) || !strings.Contains(page, " required") {
		t.Error("file input missing type or required attribute")
	}
}

func TestRender_EscapesUserStrings(t *testing.T) {
	doc, err := Build(
		`<script>alert(1)</script>`,
		`"quoted" & <desc>`,
		FormTypeBuilder,
		[]FieldSpec{{Label: `<b>bold</b>`, Name: "name", Value: `"><script>`, Placeholder: `<p>`}},
		"",
		FormOptions{},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	page, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if strings.Contains(page, "<script>alert(1)</script>") {
		t.Error("page title injected unescaped markup")
	}
	if strings.Contains(page, "<b>bold</b>") {
		t.Error("label injected unescaped markup")
	}
	if strings.Contains(page, `value=""><script>`) {
		t.Error("value attribute escaped incorrectly")
	}
}

func TestRender_CustomHTMLVerbatim(t *testing.T) {
	raw := `<input name="x" type="text"><em>anything goes</em>`
	doc, err := Build("T", "D", FormTypeCustomHTML, nil, raw, FormOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	page, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(page, raw) {
		t.Error("custom HTML body was altered")
	}
}

func TestRender_FieldOrderPreserved(t *testing.T) {
	doc := buildTestDoc(t, []FieldSpec{
		{Label: "One", Name: "one"},
		{Label: "Two", Name: "two"},
		{Label: "Three", Name: "three"},
	}, FormOptions{})
	page, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	one := strings.Index(page, `name="one"`)
	two := strings.Index(page, `name="two"`)
	three := strings.Index(page, `name="three"`)
	if !(one < two && two < three) {
		t.Fatalf("field order not preserved: one=%d two=%d three=%d", one, two, three)
	}
}

func TestRender_FailsClosedOnUnresolvedOptions(t *testing.T) {
	// Hand-built Document that skipped Build and therefore Resolve.
	doc := &Document{PageTitle: "T", FormType: FormTypeBuilder}
	if _, err := Render(doc); err == nil {
		t.Fatal("expected RenderError for unresolved options")
	}
}

func TestBuild_DuplicateNameIsSpecificationError(t *testing.T) {
	_, err := Build("T", "D", FormTypeBuilder, []FieldSpec{
		{Label: "A", Name: "dup"},
		{Label: "B", Name: "dup"},
	}, "", FormOptions{})

	var se *SpecificationError
	if !errors.As(err, &se) {
		t.Fatalf("want SpecificationError, got %v", err)
	}
	if se.Field != "dup" {
		t.Errorf("error names field %q, want dup", se.Field)
	}
}

func TestBuild_EmptyNameIsSpecificationError(t *testing.T) {
	_, err := Build("T", "D", FormTypeBuilder, []FieldSpec{{Label: "A"}}, "", FormOptions{})
	var se *SpecificationError
	if !errors.As(err, &se) {
		t.Fatalf("want SpecificationError, got %v", err)
	}
}

func TestResolve_OverridesSurvive(t *testing.T) {
	opts := FormOptions{SubmitLabel: "Go", FormID: "mine", CSSFile: "https://example.com/a.css"}.Resolve()
	if opts.SubmitLabel != "Go" || opts.FormID != "mine" || opts.CSSFile != "https://example.com/a.css" {
		t.Fatalf("overrides lost: %+v", opts)
	}
	if opts.JQuery != DefaultJQuery || opts.Bootstrap != DefaultBootstrap {
		t.Fatalf("defaults not applied: %+v", opts)
	}
	if !strings.Contains(opts.Javascript, "#mine") {
		t.Errorf("default script not bound to resolved form id: %q", opts.Javascript)
	}
}
