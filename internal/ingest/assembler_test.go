// internal/ingest/assembler_test.go
//
// Unit-tests for submission record assembly.

package ingest

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAssemble_FlatPayload(t *testing.T) {
	parsed := &Parsed{
		Values: map[string]any{
			"name":  "Alice",
			"email": "a@example.com",
			"note":  "hi",
		},
	}

	rec, err := Assemble("contact", parsed, nil, false, "")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	want := map[string]any{"name": "Alice", "email": "a@example.com", "note": "hi"}
	if diff := cmp.Diff(want, rec.Payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	if rec.FormID != "contact" {
		t.Errorf("form id = %q", rec.FormID)
	}
	if rec.ID == "" {
		t.Error("record id not assigned")
	}
	if rec.ReceivedAt.IsZero() {
		t.Error("receive time not stamped")
	}
}

func TestAssemble_DetailedBodyShape(t *testing.T) {
	parsed := &Parsed{
		Values: map[string]any{"name": "Alice"},
		Files:  []FileUpload{{FieldName: "resume", FileName: "cv.pdf", ContentType: "application/pdf", Data: []byte("pdf")}},
	}
	meta := &RequestMeta{
		Headers: map[string]string{"User-Agent": "test"},
		Params:  map[string]string{"formID": "contact"},
		Query:   map[string]string{"ref": "mail"},
	}

	rec, err := Assemble("contact", parsed, meta, true, "")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	want := map[string]any{
		"headers": map[string]string{"User-Agent": "test"},
		"params":  map[string]string{"formID": "contact"},
		"query":   map[string]string{"ref": "mail"},
		"body":    map[string]any{"name": "Alice"},
	}
	if diff := cmp.Diff(want, rec.Payload); diff != "" {
		t.Errorf("detailed payload mismatch (-want +got):\n%s", diff)
	}

	// Attachments stay a sibling of the payload, never nested inside it.
	a, ok := rec.Attachments["resume"]
	if !ok {
		t.Fatalf("attachment missing: %v", rec.Attachments)
	}
	if a.FileName != "cv.pdf" || a.MimeType != "application/pdf" || a.Size != 3 {
		t.Errorf("attachment metadata wrong: %+v", a)
	}
	if _, nested := rec.Payload["resume"]; nested {
		t.Error("attachment leaked into the payload")
	}
}

func TestAssemble_CollisionSurfaces(t *testing.T) {
	parsed := &Parsed{
		Values: map[string]any{},
		Files: []FileUpload{
			{FieldName: "doc", FileName: "a", Data: []byte("1")},
			{FieldName: "doc[]", FileName: "b", Data: []byte("2")},
		},
	}

	_, err := Assemble("f", parsed, nil, false, "")
	var nce *NamingCollisionError
	if !errors.As(err, &nce) {
		t.Fatalf("want NamingCollisionError, got %v", err)
	}
}

func TestAssemble_DetailedWithNilMeta(t *testing.T) {
	parsed := &Parsed{Values: map[string]any{"a": "b"}}

	rec, err := Assemble("f", parsed, nil, true, "")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	for _, key := range []string{"headers", "params", "query", "body"} {
		if _, ok := rec.Payload[key]; !ok {
			t.Errorf("detailed payload missing %q: %v", key, rec.Payload)
		}
	}
	if body, ok := rec.Payload["body"].(map[string]any); !ok || body["a"] != "b" {
		t.Errorf("body wrapper wrong: %v", rec.Payload["body"])
	}
}

func TestAssemble_UniqueIDs(t *testing.T) {
	parsed := &Parsed{Values: map[string]any{"a": "b"}}
	first, err := Assemble("f", parsed, nil, false, "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Assemble("f", parsed, nil, false, "")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == second.ID {
		t.Error("two submissions shared a record id")
	}
}
