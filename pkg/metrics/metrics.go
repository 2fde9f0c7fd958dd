package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resultados usados no label "outcome" de AuthEvents.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// HTTPRequestCounter conta o total de requisições HTTP.
	HTTPRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "innovatube_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestDuration observa a duração das requisições HTTP.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "innovatube_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// AuthEvents conta as transições do fluxo de autenticação por operação e resultado.
	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "innovatube_auth_events_total",
			Help: "Authentication flow operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)

	// MailDispatchFailures conta falhas de envio de e-mail.
	MailDispatchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "innovatube_mail_dispatch_failures_total",
			Help: "Outbound e-mails that could not be dispatched.",
		},
	)

	// AppInfo expõe informações sobre a aplicação.
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "innovatube_app_info",
			Help: "Information about the InnovaTube backend.",
		},
		[]string{"version", "environment"},
	)
)

// RecordAuthEvent incrementa AuthEvents.
func RecordAuthEvent(operation, outcome string) {
	AuthEvents.WithLabelValues(operation, outcome).Inc()
}

// SetAppInfo publica a versão e o ambiente em execução.
func SetAppInfo(version, environment string) {
	AppInfo.With(prometheus.Labels{"version": version, "environment": environment}).Set(1)
}
