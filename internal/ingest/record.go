// internal/ingest/record.go
//
// Formgate – Ingestion subsystem: data model.
//
// Context
//   These types describe one ingested submission on its way to the trigger
//   boundary.  Everything here is request-scoped: created while handling a
//   single POST, handed to the emitter, and discarded.  The structs hold no
//   handles or live resources, so they are safe to log or JSON-encode.
//
//------------------------------------------------------------------------------

package ingest

import "time"

// Attachment is one uploaded file, fully materialized.  By the time an
// Attachment exists, any temporary storage used while parsing has already
// been released.
type Attachment struct {
	Data     []byte `json:"-"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// RequestMeta captures the request context that the detailed body shape
// wraps around the field values.
type RequestMeta struct {
	Headers map[string]string `json:"headers"`
	Params  map[string]string `json:"params"`
	Query   map[string]string `json:"query"`
}

// SubmissionRecord is the normalized output event handed to the workflow
// boundary.  Payload is either the field values themselves (flat shape) or
// the {headers, params, query, body} wrapper (detailed shape); Attachments
// always sit beside the payload, never inside it.
type SubmissionRecord struct {
	ID          string                `json:"id"`       // Event identifier, UUID v4.
	FormID      string                `json:"formId"`   // Originating form.
	ReceivedAt  time.Time             `json:"receivedAt"`
	Payload     map[string]any        `json:"payload"`
	Attachments map[string]Attachment `json:"attachments,omitempty"`
}
