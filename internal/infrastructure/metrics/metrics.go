// Package metrics métricas Prometheus del servicio: HTTP, ciclo de solicitudes, stock y caché.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/indrhi/suministros-api/internal/application/ports"
)

var (
	// HTTP
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suministros_http_requests_total",
			Help: "Peticiones HTTP por método, ruta y código de estado",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "suministros_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP en segundos",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Ciclo de solicitudes
	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suministros_transiciones_total",
			Help: "Transiciones de estado aplicadas a solicitudes",
		},
		[]string{"transicion"},
	)

	// Inventario
	StockUnitsMoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suministros_unidades_movidas_total",
			Help: "Unidades de existencia movidas por motivo",
		},
		[]string{"motivo"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suministros_cache_catalogo_total",
			Help: "Consultas a la caché del catálogo por resultado (hit, miss, error)",
		},
		[]string{"resultado"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(TransitionsTotal)
	prometheus.MustRegister(StockUnitsMoved)
	prometheus.MustRegister(CacheLookups)
}

// Handler expone el registro por defecto en formato Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}

var _ ports.WorkflowMetrics = Recorder{}

// Recorder adapta los contadores al puerto que usan los casos de uso.
type Recorder struct{}

func (Recorder) TransitionApplied(transition string) {
	TransitionsTotal.WithLabelValues(transition).Inc()
}

func (Recorder) StockMoved(reason string, units int) {
	if units <= 0 {
		return
	}
	StockUnitsMoved.WithLabelValues(reason).Add(float64(units))
}
