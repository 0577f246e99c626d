package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "claims"

// Outcomes recorded by RecordExtraction.
const (
	OutcomeExtracted = "extracted"
	OutcomeDefault   = "default"
	OutcomeNoItems   = "no_medications"
)

// Metrics counts extraction activity. A nil *Metrics is valid and records
// nothing, so services can run without it in tests.
type Metrics struct {
	registry *prometheus.Registry

	extractions    *prometheus.CounterVec
	strategyWins   *prometheus.CounterVec
	strategyErrors *prometheus.CounterVec
	documents      *prometheus.CounterVec
	ocrPages       *prometheus.CounterVec
	barcodeLookups *prometheus.CounterVec
	batchDocuments prometheus.Counter
}

// New creates a Metrics with its own registry, including Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Receipt extractions by outcome.",
		}, []string{"outcome"}),
		strategyWins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "medication_strategy_wins_total",
			Help:      "Medication strategy that produced the extracted lines.",
		}, []string{"strategy"}),
		strategyErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "medication_strategy_errors_total",
			Help:      "Strategy runs that skipped rows or panicked.",
		}, []string{"strategy"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Uploaded documents by kind and result.",
		}, []string{"kind", "result"}),
		ocrPages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ocr_pages_total",
			Help:      "Pages sent to OCR by result.",
		}, []string{"result"}),
		barcodeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_barcode_lookups_total",
			Help:      "Claim barcode decode attempts by result.",
		}, []string{"result"}),
		batchDocuments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_documents_total",
			Help:      "Documents received through batch extraction.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.extractions,
		m.strategyWins,
		m.strategyErrors,
		m.documents,
		m.ocrPages,
		m.barcodeLookups,
		m.batchDocuments,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordExtraction(outcome string) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordStrategyWin(strategy string) {
	if m == nil {
		return
	}
	m.strategyWins.WithLabelValues(strategy).Inc()
}

func (m *Metrics) RecordStrategyError(strategy string) {
	if m == nil {
		return
	}
	m.strategyErrors.WithLabelValues(strategy).Inc()
}

// RecordDocument counts an upload; kind is pdf, scanned_pdf or image.
func (m *Metrics) RecordDocument(kind string, success bool) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(kind, result(success)).Inc()
}

func (m *Metrics) RecordOCRPage(success bool) {
	if m == nil {
		return
	}
	m.ocrPages.WithLabelValues(result(success)).Inc()
}

func (m *Metrics) RecordBarcode(found bool) {
	if m == nil {
		return
	}
	if found {
		m.barcodeLookups.WithLabelValues("found").Inc()
		return
	}
	m.barcodeLookups.WithLabelValues("not_found").Inc()
}

func (m *Metrics) RecordBatch(size int) {
	if m == nil {
		return
	}
	m.batchDocuments.Add(float64(size))
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
