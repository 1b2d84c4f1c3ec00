// internal/ingest/parser.go
//
// Formgate – Ingestion subsystem: request body parser.
//
// Context
//   Parse converts an inbound POST body into a mapping of scalar or array
//   field values plus an ordered list of file uploads.  Multipart bodies are
//   consumed part by part with mime/multipart.Reader so the order files
//   arrive in is the order they keep; URL-encoded bodies yield values only.
//
// Workflow
//   •  The body is wrapped in http.MaxBytesReader, so an oversized or
//      unbounded stream fails the request rather than the process.
//   •  A part with a filename is a file part; everything else is a value
//      part.  A field name may repeat across parts: repeated value parts
//      promote the entry to an array, repeated file parts simply append.
//   •  Any failure (malformed boundary, truncated stream, unsupported
//      content type) is reported as a single ParseError.  No partial result
//      is returned, and because file bytes are materialized into memory as
//      each part is read, there is no temporary storage left to leak on the
//      error path.
//
//------------------------------------------------------------------------------

package ingest

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// FileUpload is one file part lifted out of the body, in arrival order.
type FileUpload struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
}

// Parsed is the parser's output: field values plus ordered file uploads.
// Values entries are string for single occurrences and []string for
// repeated ones, preserving arrival order.
type Parsed struct {
	Values map[string]any
	Files  []FileUpload
}

// ParseError marks a malformed or unreadable submission body.  It is a
// per-request condition: surfaced to the submitter as a failed
// acknowledgement, never allowed to crash the serving process.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse submission: %s: %v", e.Reason, e.Err)
	}
	return "parse submission: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err is a submission parse failure, as
// opposed to a configuration or infrastructure defect.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Parse reads the request body and classifies it by content type.  maxBody
// caps the total number of body bytes accepted; crossing it fails the
// request with a ParseError.
func Parse(w http.ResponseWriter, r *http.Request, maxBody int64) (*Parsed, error) {
	ctype := r.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(ctype)
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("bad content type %q", ctype), Err: err}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	switch mediaType {
	case "multipart/form-data":
		if params["boundary"] == "" {
			return nil, &ParseError{Reason: "multipart body without boundary"}
		}
		return parseMultipart(r)
	case "application/x-www-form-urlencoded":
		return parseURLEncoded(r)
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unsupported content type %q", mediaType)}
	}
}

// parseMultipart walks the parts in order, buffering each fully before
// moving on.  multipart.Reader streams from the capped body, so a malformed
// boundary or truncated stream surfaces as a NextPart or read error.
func parseMultipart(r *http.Request) (*Parsed, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, &ParseError{Reason: "open multipart reader", Err: err}
	}

	out := &Parsed{Values: make(map[string]any)}
	for {
		part, err := mr.NextPart()
		// NextPart returns bare io.EOF only at a proper final boundary.  A
		// stream that ends before the declared boundary appears comes back as
		// a wrapped "NextPart: EOF", which must stay an error: matching it
		// with errors.Is would turn a malformed body into a clean empty
		// submission.
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Reason: "read multipart part", Err: err}
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, &ParseError{Reason: "read part body", Err: err}
		}

		name := part.FormName()
		if name == "" {
			continue // nameless parts carry nothing we can key on
		}

		if fname := part.FileName(); fname != "" {
			ct := part.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			out.Files = append(out.Files, FileUpload{
				FieldName:   name,
				FileName:    fname,
				ContentType: ct,
				Data:        data,
			})
			continue
		}

		appendValue(out.Values, name, string(data))
	}
	return out, nil
}

// parseURLEncoded treats the whole body as value parts.  No files ever come
// out of this path.
func parseURLEncoded(r *http.Request) (*Parsed, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, &ParseError{Reason: "read body", Err: err}
	}
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, &ParseError{Reason: "decode urlencoded body", Err: err}
	}

	out := &Parsed{Values: make(map[string]any)}
	for name, vals := range values {
		for _, v := range vals {
			appendValue(out.Values, name, v)
		}
	}
	return out, nil
}

// appendValue stores a scalar on first sight and promotes to an array on
// repeats, keeping arrival order.
func appendValue(values map[string]any, name, v string) {
	switch prev := values[name].(type) {
	case nil:
		values[name] = v
	case string:
		values[name] = []string{prev, v}
	case []string:
		values[name] = append(prev, v)
	}
}
