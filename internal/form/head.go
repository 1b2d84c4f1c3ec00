// internal/form/head.go
//
// Formgate – Forms subsystem: page <head> assembly.
//
// The headBuilder collects everything that belongs inside the rendered
// page's <head> element and emits it in a fixed, deterministic order: title,
// metas, stylesheet links, external scripts, then the inline script.  The
// renderer pushes tags in declaration order (bootstrap, custom CSS, jQuery,
// inline handler) and asset ordering on the page follows from that.
//
// The builder is request-scoped and never shared between goroutines, so no
// locking is needed.
package form

import (
	"html"
	"strings"
)

type headBuilder struct {
	title   string
	metas   []string
	links   []string
	scripts []string
	inline  []string
}

// SetTitle records the page <title>.  The last caller wins.
func (b *headBuilder) SetTitle(t string) { b.title = t }

// Meta appends a literal meta tag.
func (b *headBuilder) Meta(tag string) { b.metas = append(b.metas, tag) }

// Stylesheet appends a stylesheet link for the given URL.
func (b *headBuilder) Stylesheet(url string) {
	b.links = append(b.links, `<link rel="stylesheet" href="`+html.EscapeString(url)+`">`)
}

// ScriptSrc appends an external script reference.
func (b *headBuilder) ScriptSrc(url string) {
	b.scripts = append(b.scripts, `<script src="`+html.EscapeString(url)+`"></script>`)
}

// InlineScript appends a script body.  The body is operator-supplied code
// and is emitted verbatim, like custom HTML.
func (b *headBuilder) InlineScript(js string) {
	b.inline = append(b.inline, "<script>\n"+js+"\n</script>")
}

// String concatenates the collected tags in emission order, one per line.
func (b *headBuilder) String() string {
	var sb strings.Builder
	sb.WriteString("<title>" + html.EscapeString(b.title) + "</title>\n")
	for _, m := range b.metas {
		sb.WriteString(m + "\n")
	}
	for _, l := range b.links {
		sb.WriteString(l + "\n")
	}
	for _, s := range b.scripts {
		sb.WriteString(s + "\n")
	}
	for _, s := range b.inline {
		sb.WriteString(s + "\n")
	}
	return sb.String()
}
