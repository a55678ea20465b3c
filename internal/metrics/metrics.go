package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 15},
		},
		[]string{"method", "endpoint"},
	)

	PapersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "papers_created_total",
			Help: "Papers generated, by mode",
		},
		[]string{"mode"},
	)

	GradedItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graded_items_total",
			Help: "Submission items graded, by result",
		},
		[]string{"result"},
	)

	AnalysisResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_results_total",
			Help: "Wrong-answer analyses produced, by source",
		},
		[]string{"source"},
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "Time spent producing one wrong-answer analysis",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 12, 30},
		},
	)
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Repeated calls are no-ops.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			PapersCreated,
			GradedItems,
			AnalysisResults,
			AnalysisDuration,
		)
	})
}

// ObserveGrade counts one graded item.
func ObserveGrade(correct bool) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	GradedItems.WithLabelValues(result).Inc()
}

// ObserveAnalysis counts one analysis and records how long it took.
func ObserveAnalysis(source string, elapsed time.Duration) {
	AnalysisResults.WithLabelValues(source).Inc()
	AnalysisDuration.Observe(elapsed.Seconds())
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
