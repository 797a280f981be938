package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters_InFlightAndPathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())

	// Writes a body, so the size histogram sees a non-negative value.
	r.GET("/quotes", func(c *gin.Context) {
		c.String(http.StatusOK, "hello")
	})

	// Status only: size stays -1 and the size observation is skipped.
	r.GET("/statusonly", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// Baselines first; collectors are package globals shared across tests.
	baseOK := testutil.ToFloat64(reqCount.WithLabelValues("GET", "/quotes", "200"))
	base404 := testutil.ToFloat64(reqCount.WithLabelValues("GET", "/does-not-exist", "404"))

	// Matched route: the path label is the route pattern.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/quotes", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /quotes -> %d", w.Code)
	}

	// Unmatched route: the path label falls back to the raw URL.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /does-not-exist -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/statusonly", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("GET /statusonly -> %d", w.Code)
	}

	gotOK := testutil.ToFloat64(reqCount.WithLabelValues("GET", "/quotes", "200"))
	if gotOK != baseOK+1 {
		t.Fatalf("counter /quotes 200 = %v; want %v", gotOK, baseOK+1)
	}

	got404 := testutil.ToFloat64(reqCount.WithLabelValues("GET", "/does-not-exist", "404"))
	if got404 != base404+1 {
		t.Fatalf("counter 404 fallback = %v; want %v", got404, base404+1)
	}

	// Nothing left in flight once the requests completed.
	if inFlight := testutil.ToFloat64(reqInFlight); inFlight != 0 {
		t.Fatalf("http_requests_inflight = %v; want 0", inFlight)
	}

	// Exact histogram buckets are timing-dependent; the three requests above
	// already exercised both the observe path and the size<0 skip.
}
