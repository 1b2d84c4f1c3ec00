// internal/form/definition_test.go
//
// Unit-tests for the YAML definition loader and registry.

package form

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeYAML(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefinition_Builder(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "contact.yaml", `
id: contact
pageTitle: Contact Us
pageDescription: We will get back to you.
fields:
  - label: Name
    name: name
    inputType: text
    required: true
  - label: Photos
    name: photos[]
    inputType: file
options:
  submitLabel: Send
  detailedBody: true
`)

	d, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("LoadDefinition: %v", err)
	}
	if d.ID != "contact" || len(d.Fields) != 2 {
		t.Fatalf("unexpected definition: %+v", d)
	}
	if d.Fields[1].InputType != InputFile {
		t.Errorf("inputType = %q, want file", d.Fields[1].InputType)
	}
	if !d.Options.DetailedBody || d.Options.SubmitLabel != "Send" {
		t.Errorf("options not parsed: %+v", d.Options)
	}

	doc, err := d.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if doc.Options.SubmitLabel != "Send" || doc.Options.FormID != DefaultFormID {
		t.Errorf("options not resolved: %+v", doc.Options)
	}
}

func TestLoadDefinition_DuplicateFieldName(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "dup.yaml", `
id: dup
fields:
  - {label: A, name: same}
  - {label: B, name: same}
`)

	_, err := LoadDefinition(path)
	if err == nil || !strings.Contains(err.Error(), "duplicate field name") {
		t.Fatalf("want duplicate-name error, got %v", err)
	}
}

func TestLoadDefinition_CustomHTMLRules(t *testing.T) {
	dir := t.TempDir()

	// customHTML without html body is rejected.
	bad := writeYAML(t, dir, "bad.yaml", "id: bad\nformType: customHTML\n")
	if _, err := LoadDefinition(bad); err == nil {
		t.Fatal("customHTML without html should fail")
	}

	good := writeYAML(t, dir, "good.yaml", `
id: good
formType: customHTML
html: '<input name="x">'
`)
	d, err := LoadDefinition(good)
	if err != nil {
		t.Fatalf("LoadDefinition: %v", err)
	}
	if d.HTML != `<input name="x">` {
		t.Errorf("html body altered: %q", d.HTML)
	}
}

func TestRegister_RevisionBumpsOnOverwrite(t *testing.T) {
	first := &Definition{ID: "rev-test", Fields: []FieldSpec{{Label: "A", Name: "a"}}}
	Register(first)
	second := &Definition{ID: "rev-test", Fields: []FieldSpec{{Label: "B", Name: "b"}}}
	Register(second)

	got, ok := Get("rev-test")
	if !ok {
		t.Fatal("definition not registered")
	}
	if got.Revision != first.Revision+1 {
		t.Fatalf("revision = %d, want %d", got.Revision, first.Revision+1)
	}
	if got.Fields[0].Name != "b" {
		t.Error("overwrite did not replace the definition")
	}
}

func TestRegisterForms_WalksDirectory(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "one.yaml", "id: walk-one\nfields: [{label: A, name: a}]\n")
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeYAML(t, sub, "two.yaml", "id: walk-two\nfields: [{label: B, name: b}]\n")
	writeYAML(t, dir, "ignored.txt", "not yaml")

	if err := RegisterForms(dir); err != nil {
		t.Fatalf("RegisterForms: %v", err)
	}
	for _, id := range []string{"walk-one", "walk-two"} {
		if _, ok := Get(id); !ok {
			t.Errorf("form %q not registered", id)
		}
	}
}
