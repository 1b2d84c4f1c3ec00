// internal/ingest/namer_test.go
//
// Unit-tests for attachment key assignment.

package ingest

import (
	"errors"
	"testing"
)

func upload(field, name string, body string) FileUpload {
	return FileUpload{FieldName: field, FileName: name, ContentType: "application/octet-stream", Data: []byte(body)}
}

func TestNameAll_ArrayFieldGetsCounters(t *testing.T) {
	files := []FileUpload{
		upload("photos[]", "a.jpg", "aaa"),
		upload("photos[]", "b.jpg", "bbb"),
	}

	got, err := NameAll(files, "")
	if err != nil {
		t.Fatalf("NameAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d attachments, want 2", len(got))
	}
	if string(got["photos0"].Data) != "aaa" || string(got["photos1"].Data) != "bbb" {
		t.Fatalf("keys or bytes wrong: %v", keysOf(got))
	}
}

func TestNameAll_SingleFileKeepsBareName(t *testing.T) {
	got, err := NameAll([]FileUpload{upload("resume", "cv.pdf", "pdf")}, "")
	if err != nil {
		t.Fatalf("NameAll: %v", err)
	}
	a, ok := got["resume"]
	if !ok {
		t.Fatalf("want key resume, got %v", keysOf(got))
	}
	if a.FileName != "cv.pdf" || a.Size != 3 {
		t.Errorf("attachment metadata wrong: %+v", a)
	}
}

func TestNameAll_SingleArrayFieldStripsSuffix(t *testing.T) {
	got, err := NameAll([]FileUpload{upload("docs[]", "d.txt", "x")}, "")
	if err != nil {
		t.Fatalf("NameAll: %v", err)
	}
	if _, ok := got["docs"]; !ok {
		t.Fatalf("want key docs (suffix stripped, no counter), got %v", keysOf(got))
	}
}

func TestNameAll_OverridePrefixCountsGlobally(t *testing.T) {
	files := []FileUpload{
		upload("resume", "cv.pdf", "1"),
		upload("photos[]", "a.jpg", "2"),
		upload("photos[]", "b.jpg", "3"),
	}

	got, err := NameAll(files, "data")
	if err != nil {
		t.Fatalf("NameAll: %v", err)
	}
	for _, key := range []string{"data0", "data1", "data2"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q: %v", key, keysOf(got))
		}
	}
}

func TestNameAll_CollisionRejected(t *testing.T) {
	// "photos" and "photos[]" reduce to the same stripped name.
	files := []FileUpload{
		upload("photos", "a.jpg", "1"),
		upload("photos[]", "b.jpg", "2"),
	}

	_, err := NameAll(files, "")
	var nce *NamingCollisionError
	if !errors.As(err, &nce) {
		t.Fatalf("want NamingCollisionError, got %v", err)
	}
	if nce.Key != "photos" {
		t.Errorf("collision key = %q, want photos", nce.Key)
	}
}

func TestAssignKey_Rules(t *testing.T) {
	cases := []struct {
		field  string
		idx    int
		multi  bool
		prefix string
		global int
		want   string
	}{
		{"resume", 0, false, "", 0, "resume"},
		{"photos[]", 0, true, "", 0, "photos0"},
		{"photos[]", 1, true, "", 1, "photos1"},
		{"anything", 3, true, "file", 7, "file7"},
	}
	for _, c := range cases {
		if got := AssignKey(c.field, c.idx, c.multi, c.prefix, c.global); got != c.want {
			t.Errorf("AssignKey(%q,%d,%v,%q,%d) = %q, want %q",
				c.field, c.idx, c.multi, c.prefix, c.global, got, c.want)
		}
	}
}

func keysOf(m map[string]Attachment) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
