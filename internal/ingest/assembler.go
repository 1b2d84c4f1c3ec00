// internal/ingest/assembler.go
//
// Formgate – Ingestion subsystem: event assembly.
//
// Context
//   Assemble is the last step of the ingest path: it merges parsed field
//   values, named attachments, and request metadata into the one
//   SubmissionRecord the trigger boundary receives.  It is a pure merge; no
//   field is renamed, filtered, or reshaped beyond the detailed-body switch.
//
// Workflow
//   •  detailed == false: the payload is exactly the parsed field values.
//   •  detailed == true: the payload is {headers, params, query, body},
//      with the field values under "body".
//   •  Attachments are keyed by NameAll and always attached as a sibling of
//      the payload, independent of the body shape.
//
//------------------------------------------------------------------------------

package ingest

import (
	"time"

	"github.com/google/uuid"
)

// Assemble produces the SubmissionRecord for one parsed submission.  The
// only failure mode is an attachment key collision.
func Assemble(formID string, parsed *Parsed, meta *RequestMeta, detailed bool, binaryPrefix string) (*SubmissionRecord, error) {
	attachments, err := NameAll(parsed.Files, binaryPrefix)
	if err != nil {
		return nil, err
	}

	payload := parsed.Values
	if detailed {
		if meta == nil {
			meta = &RequestMeta{}
		}
		payload = map[string]any{
			"headers": meta.Headers,
			"params":  meta.Params,
			"query":   meta.Query,
			"body":    parsed.Values,
		}
	}

	return &SubmissionRecord{
		ID:          uuid.NewString(),
		FormID:      formID,
		ReceivedAt:  time.Now().UTC(),
		Payload:     payload,
		Attachments: attachments,
	}, nil
}
