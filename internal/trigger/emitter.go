// internal/trigger/emitter.go
//
// Formgate – Trigger boundary.
//
// Context
//   The gateway hands exactly one SubmissionRecord per successful POST to an
//   Emitter.  The emitter is the workflow engine's edge: what happens to the
//   record afterwards (queueing, retries, delivery) belongs to the host, not
//   to this core.  Two implementations ship here: a log emitter used when no
//   downstream is configured, and a webhook emitter that forwards the record
//   as JSON to a fixed URL.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/joffcom/formgate/internal/ingest"
)

// Emitter receives the normalized event produced from an ingested POST.
// Implementations must not retry internally; delivery policy is the host's.
type Emitter interface {
	Emit(ctx context.Context, rec *ingest.SubmissionRecord) error
}

// LogEmitter writes the record to the structured log and discards it.  The
// boot default when no webhook URL is configured.
type LogEmitter struct{}

// Emit logs the record summary.  Attachment bytes are elided; only keys and
// sizes are useful in a log line.
func (LogEmitter) Emit(_ context.Context, rec *ingest.SubmissionRecord) error {
	keys := make([]string, 0, len(rec.Attachments))
	var total int64
	for k, a := range rec.Attachments {
		keys = append(keys, k)
		total += a.Size
	}
	zap.S().Infow("submission event",
		"event_id", rec.ID,
		"form", rec.FormID,
		"fields", len(rec.Payload),
		"attachments", keys,
		"attachment_bytes", total,
	)
	return nil
}

// WebhookEmitter forwards each record as a JSON POST to a fixed URL.
type WebhookEmitter struct {
	URL    string
	Client *http.Client // Optional; a 10 s default client is used when nil.
}

// Emit serializes the record and delivers it.  Non-2xx responses are
// errors so the gateway can signal a failed acknowledgement.
func (e *WebhookEmitter) Emit(ctx context.Context, rec *ingest.SubmissionRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Formgate-Event", rec.ID)

	client := e.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver event %s: %w", rec.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("deliver event %s: downstream returned %d", rec.ID, resp.StatusCode)
	}
	return nil
}
