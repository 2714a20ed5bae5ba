package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the consent module. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Decisions           *prometheus.CounterVec
	ScriptsServed       *prometheus.CounterVec
	FragmentsRendered   *prometheus.CounterVec
	TemplateErrors      prometheus.Counter
	RegistryCache       *prometheus.CounterVec
	RegistryLoadLatency prometheus.Histogram
	CookiesExpired      prometheus.Counter
	DecisionLogDropped  prometheus.Counter
	DecisionLogPurged   prometheus.Counter
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer in
// main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "consentry_decisions_total",
			Help: "Consent decisions, labeled by website and action",
		}, []string{"website", "action"}),
		ScriptsServed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "consentry_scripts_served_total",
			Help: "Script payloads served, labeled by whether the modal was forced open",
		}, []string{"website", "reload_modal"}),
		FragmentsRendered: f.NewCounterVec(prometheus.CounterOpts{
			Name: "consentry_fragments_rendered_total",
			Help: "Script fragments emitted, labeled by injection point and strategy",
		}, []string{"point", "strategy"}),
		TemplateErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "consentry_template_errors_total",
			Help: "Script or modal templates that failed to parse or execute",
		}),
		RegistryCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "consentry_registry_cache_lookups_total",
			Help: "Registry cache lookups, labeled by result (hit, miss, error)",
		}, []string{"result"}),
		RegistryLoadLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "consentry_registry_load_latency_seconds",
			Help:    "Latency of loading a registry from the backing store",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		CookiesExpired: f.NewCounter(prometheus.CounterOpts{
			Name: "consentry_cookies_expired_total",
			Help: "Browser cookies expired because their group was denied or inspected",
		}),
		DecisionLogDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "consentry_decision_log_dropped_total",
			Help: "Decision log entries dropped because the async buffer was full",
		}),
		DecisionLogPurged: f.NewCounter(prometheus.CounterOpts{
			Name: "consentry_decision_log_purged_total",
			Help: "Decision log entries removed by retention",
		}),
	}
}

func (m *Metrics) IncDecision(website, action string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(website, action).Inc()
}

func (m *Metrics) IncScriptsServed(website string, reloadModal bool) {
	if m == nil {
		return
	}
	label := "false"
	if reloadModal {
		label = "true"
	}
	m.ScriptsServed.WithLabelValues(website, label).Inc()
}

func (m *Metrics) IncFragment(point, strategy string) {
	if m == nil {
		return
	}
	m.FragmentsRendered.WithLabelValues(point, strategy).Inc()
}

func (m *Metrics) IncTemplateError() {
	if m == nil {
		return
	}
	m.TemplateErrors.Inc()
}

func (m *Metrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.RegistryCache.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRegistryLoad(seconds float64) {
	if m == nil {
		return
	}
	m.RegistryLoadLatency.Observe(seconds)
}

func (m *Metrics) AddCookiesExpired(n int) {
	if m == nil || n == 0 {
		return
	}
	m.CookiesExpired.Add(float64(n))
}

func (m *Metrics) IncDecisionLogDropped() {
	if m == nil {
		return
	}
	m.DecisionLogDropped.Inc()
}

func (m *Metrics) AddDecisionLogPurged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.DecisionLogPurged.Add(float64(n))
}
