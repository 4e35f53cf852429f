package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total de turnos processados, por rota (intenção, slot ou troca de idioma)",
		},
		[]string{"route"},
	)

	QuoteOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_outcomes_total",
			Help: "Resultado das tentativas de orçamento",
		},
		[]string{"outcome"},
	)

	TranslateFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "translate_fallbacks_total",
			Help: "Traduções que falharam e usaram o texto original",
		},
	)

	RemoteLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remote_request_seconds",
			Help:    "Latência das chamadas ao serviço de preços",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// Start registra as métricas e expõe /metrics em uma porta separada.
func Start(port string) {
	prometheus.MustRegister(TurnsTotal, QuoteOutcomes, TranslateFallbacks, RemoteLatency)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, mux)
}
