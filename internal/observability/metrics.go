package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/better-pagination/better-pagination/internal/pagination"
)

// Metrics mengumpulkan metrik Prometheus untuk aplikasi.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	linkSets        *prometheus.CounterVec
	outOfRange      *prometheus.CounterVec
	totalPages      *prometheus.HistogramVec
	countCache      *prometheus.CounterVec
}

// NewMetrics menginisialisasi registry dan metrik dasar.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "betterpagination_http_requests_total",
		Help: "Jumlah permintaan HTTP berdasarkan route dan status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "betterpagination_http_request_duration_seconds",
		Help:    "Durasi permintaan HTTP per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	linkSets := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "betterpagination_link_sets_total",
		Help: "Jumlah link set pagination yang dibangun per hook.",
	}, []string{"hook"})
	outOfRange := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "betterpagination_out_of_range_pages_total",
		Help: "Jumlah permintaan halaman di luar rentang per hook.",
	}, []string{"hook"})
	totalPages := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "betterpagination_total_pages",
		Help:    "Sebaran jumlah halaman per link set.",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000},
	}, []string{"hook"})
	countCache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "betterpagination_count_cache_total",
		Help: "Hasil lookup cache jumlah baris.",
	}, []string{"result"})
	registry.MustRegister(requests, duration, linkSets, outOfRange, totalPages, countCache)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		linkSets:        linkSets,
		outOfRange:      outOfRange,
		totalPages:      totalPages,
		countCache:      countCache,
	}
}

// Handler mengembalikan http.Handler untuk endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware mencatat metrik untuk setiap permintaan HTTP.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveLinkSet mencatat link set yang dibangun oleh hook pagination.
func (m *Metrics) ObserveLinkSet(hook string, links pagination.LinkSet) {
	if m == nil {
		return
	}
	m.linkSets.WithLabelValues(hook).Inc()
	m.totalPages.WithLabelValues(hook).Observe(float64(links.TotalPages))
	if !links.InRange() {
		m.outOfRange.WithLabelValues(hook).Inc()
	}
}

// ObserveCountCache mencatat hit atau miss cache jumlah baris.
func (m *Metrics) ObserveCountCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.countCache.WithLabelValues(result).Inc()
}

// Registerer mengekspos registry untuk pendaftaran metrik khusus.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
