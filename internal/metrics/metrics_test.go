package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveGrade(t *testing.T) {
	before := testutil.ToFloat64(GradedItems.WithLabelValues("correct"))
	ObserveGrade(true)
	ObserveGrade(false)
	assert.Equal(t, before+1, testutil.ToFloat64(GradedItems.WithLabelValues("correct")))
}

func TestObserveAnalysis(t *testing.T) {
	before := testutil.ToFloat64(AnalysisResults.WithLabelValues("fallback"))
	ObserveAnalysis("fallback", 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(AnalysisResults.WithLabelValues("fallback")))
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Init()
	Init()

	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", PrometheusHandler())

	before := testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/ping", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/ping", "200")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
