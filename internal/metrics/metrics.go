// Package metrics holds Prometheus instruments used across the gateway.
// All collectors are registered with the global registry, so importing this
// package in main is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PagesRenderedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "form_pages_rendered_total",
			Help: "Cumulative number of form pages rendered, cache hits included.",
		})

	RenderCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "form_render_cache_hits_total",
			Help: "Cumulative number of display requests served from the render cache.",
		})

	SubmissionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Cumulative number of POST submissions accepted.",
		})

	ParseFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "form_parse_failures_total",
			Help: "Cumulative number of submissions rejected with a parse error.",
		})

	EventsEmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "form_events_emitted_total",
			Help: "Cumulative number of submission events handed to the trigger emitter.",
		})

	AttachmentBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "form_attachment_bytes_total",
			Help: "Cumulative uploaded attachment bytes across all submissions.",
		})
)

func init() {
	prometheus.MustRegister(
		PagesRenderedTotal,
		RenderCacheHitsTotal,
		SubmissionsTotal,
		ParseFailuresTotal,
		EventsEmittedTotal,
		AttachmentBytesTotal,
	)
}
