package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline holds the collectors for the ticket pipeline. An instance is
// wired into the services at startup; tests can hold their own instance
// without touching the default registry.
type Pipeline struct {
	DatasetsLoaded prometheus.Counter
	CacheHits      prometheus.Counter
	ReportsBuilt   prometheus.Counter

	requestDuration *prometheus.HistogramVec
}

// NewPipeline creates the pipeline collectors.
func NewPipeline() *Pipeline {
	return &Pipeline{
		DatasetsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ticket_report",
			Name:      "datasets_loaded_total",
			Help:      "Total number of datasets cleaned and cached.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ticket_report",
			Name:      "dataset_cache_hits_total",
			Help:      "Total number of uploads served from the content-hash cache.",
		}),
		ReportsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ticket_report",
			Name:      "reports_built_total",
			Help:      "Total number of reports aggregated.",
		}),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ticket_report",
				Name:      "http_request_seconds",
				Help:      "HTTP request latency in seconds.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "status"},
		),
	}
}

// Register attaches the pipeline collectors to the supplied registerer.
func (p *Pipeline) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		p.DatasetsLoaded,
		p.CacheHits,
		p.ReportsBuilt,
		p.requestDuration,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// statusRecorder captures the response status for the duration histogram.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request duration partitioned by method and status.
func (p *Pipeline) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		p.requestDuration.
			WithLabelValues(r.Method, strconv.Itoa(recorder.status)).
			Observe(time.Since(start).Seconds())
	})
}
