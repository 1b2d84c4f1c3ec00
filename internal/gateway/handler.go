// internal/gateway/handler.go
//
// Formgate – HTTP dispatch for the two webhook identities.
//
// Context
//   Every form lives under /form/{formID}.  A GET renders the form page and
//   never produces a workflow event; a POST ingests the submission, emits
//   exactly one SubmissionRecord, and answers with a small JSON
//   acknowledgement.  Each request runs the fixed pipeline
//   Dispatch → Display|Ingest → Respond and stops there: a failure in any
//   stage goes straight to an error response, nothing is retried here.
//
// Workflow
//   •  Display: registry lookup → Document build → Render, with a render
//      cache keyed by (form id, revision).  Rendering is deterministic, so a
//      cached page is byte-identical to a fresh render.  Build and render
//      failures are configuration defects: logged loudly, 500 to the
//      client, never a partial page.
//   •  Ingest: parse → required-presence check → attachment naming → event
//      assembly → emit.  A ParseError or naming collision yields a non-ok
//      acknowledgement and zero events.  Emitter failures also fail the
//      acknowledgement so the submitter is not told "ok" for a lost event.
//
//------------------------------------------------------------------------------

package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joffcom/formgate/internal/cache"
	"github.com/joffcom/formgate/internal/form"
	"github.com/joffcom/formgate/internal/ingest"
	"github.com/joffcom/formgate/internal/metrics"
	"github.com/joffcom/formgate/internal/requestinfo"
	"github.com/joffcom/formgate/internal/trigger"
)

// pageCacheSize bounds the render cache.  Forms are few; this is plenty.
const pageCacheSize = 256

// Gateway serves the display and ingest routes for every registered form.
type Gateway struct {
	log     *zap.SugaredLogger
	emitter trigger.Emitter
	maxBody int64

	pagesMu sync.Mutex
	pages   *cache.LRU[string, string]
}

// New wires a Gateway.  maxBody caps accepted POST bodies in bytes.
func New(log *zap.SugaredLogger, emitter trigger.Emitter, maxBody int64) *Gateway {
	return &Gateway{
		log:     log,
		emitter: emitter,
		maxBody: maxBody,
		pages:   cache.New[string, string](pageCacheSize),
	}
}

// Routes returns the chi router for the form endpoints.
func (g *Gateway) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/form/{formID}", g.Display)
	r.Post("/form/{formID}", g.Ingest)
	return r
}

/*──────────────────────────── display path ─────────────────────────────────*/

// Display renders the form page.  No workflow event is ever produced here.
func (g *Gateway) Display(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formID")
	def, ok := form.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	key := id + "@" + strconv.Itoa(def.Revision)
	g.pagesMu.Lock()
	page, hit := g.pages.Get(key)
	g.pagesMu.Unlock()

	if !hit {
		doc, err := def.Document()
		if err != nil {
			g.log.Errorw("form build failed", "form", id, "err", err)
			http.Error(w, "form misconfigured", http.StatusInternalServerError)
			return
		}
		page, err = form.Render(doc)
		if err != nil {
			// Fail closed: no partial markup leaves the process.
			g.log.Errorw("form render failed", "form", id, "err", err)
			http.Error(w, "form unavailable", http.StatusInternalServerError)
			return
		}
		g.pagesMu.Lock()
		g.pages.Add(key, page)
		g.pagesMu.Unlock()
	} else {
		metrics.RenderCacheHitsTotal.Inc()
	}

	metrics.PagesRenderedTotal.Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

/*──────────────────────────── ingest path ──────────────────────────────────*/

// Ingest parses the submission, emits exactly one event, and acknowledges.
func (g *Gateway) Ingest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formID")
	def, ok := form.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	parsed, err := ingest.Parse(w, r, g.maxBody)
	if err != nil {
		metrics.ParseFailuresTotal.Inc()
		g.log.Infow("submission rejected", "form", id, "err", err)
		writeAck(w, http.StatusBadRequest, "could not read submission")
		return
	}

	if missing := missingRequired(def, parsed); missing != "" {
		metrics.ParseFailuresTotal.Inc()
		writeAck(w, http.StatusBadRequest, "missing required field "+missing)
		return
	}

	var meta *ingest.RequestMeta
	if def.Options.DetailedBody {
		meta = captureMeta(r)
	}

	rec, err := ingest.Assemble(id, parsed, meta, def.Options.DetailedBody, def.Options.BinaryPropertyName)
	if err != nil {
		var nce *ingest.NamingCollisionError
		if errors.As(err, &nce) {
			metrics.ParseFailuresTotal.Inc()
			writeAck(w, http.StatusBadRequest, err.Error())
			return
		}
		g.log.Errorw("event assembly failed", "form", id, "err", err)
		writeAck(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := g.emitter.Emit(r.Context(), rec); err != nil {
		g.log.Errorw("event emit failed", "form", id, "event_id", rec.ID, "err", err)
		writeAck(w, http.StatusBadGateway, "event delivery failed")
		return
	}

	metrics.SubmissionsTotal.Inc()
	metrics.EventsEmittedTotal.Inc()
	for _, a := range rec.Attachments {
		metrics.AttachmentBytesTotal.Add(float64(a.Size))
	}

	if info := requestinfo.FromContext(r.Context()); info != nil {
		g.log.Infow("submission accepted",
			"form", id,
			"event_id", rec.ID,
			"attachments", len(rec.Attachments),
			"browser", info.UA.Browser,
			"country", info.Geo.CountryISO,
		)
	} else {
		g.log.Infow("submission accepted", "form", id, "event_id", rec.ID,
			"attachments", len(rec.Attachments))
	}

	writeAck(w, http.StatusOK, "")
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

// writeAck emits the JSON acknowledgement body.  An empty message means
// success; anything else marks the submission failed.
func writeAck(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	body := map[string]string{"status": "ok"}
	if message != "" {
		body = map[string]string{"status": "error", "message": message}
	}
	_ = json.NewEncoder(w).Encode(body)
}

// missingRequired returns the name of the first required field absent from
// the submission, or "".  Presence is the only validation in scope; custom
// HTML forms declare no fields and are never checked.
func missingRequired(def *form.Definition, parsed *ingest.Parsed) string {
	for i := range def.Fields {
		f := &def.Fields[i]
		if !f.Required {
			continue
		}
		if f.InputType == form.InputFile {
			if !hasFile(parsed.Files, f.Name) {
				return f.Name
			}
			continue
		}
		if v, ok := parsed.Values[f.Name]; !ok || v == "" {
			return f.Name
		}
	}
	return ""
}

func hasFile(files []ingest.FileUpload, field string) bool {
	for _, f := range files {
		if f.FieldName == field {
			return true
		}
	}
	return false
}

// captureMeta flattens headers, route params, and query parameters for the
// detailed body shape.  Multi-valued entries keep their first value, which
// matches what downstream consumers expect from header maps.
func captureMeta(r *http.Request) *ingest.RequestMeta {
	meta := &ingest.RequestMeta{
		Headers: make(map[string]string, len(r.Header)),
		Params:  make(map[string]string),
		Query:   make(map[string]string),
	}
	for k, v := range r.Header {
		if len(v) > 0 {
			meta.Headers[k] = v[0]
		}
	}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			meta.Query[k] = v[0]
		}
	}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			meta.Params[key] = rctx.URLParams.Values[i]
		}
	}
	return meta
}
