package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRouteAndStatus(t *testing.T) {
	m := NewServerMetrics("test", prometheus.NewRegistry())

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/missing", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound, "nope") })

	for _, path := range []string{"/ok", "/ok", "/missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/ok", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/missing", "404")))
}

func TestObserveConversion(t *testing.T) {
	var nilMetrics *ServerMetrics
	nilMetrics.ObserveConversion("committed")

	m := NewServerMetrics("test", prometheus.NewRegistry())
	m.ObserveConversion("committed")
	m.ObserveConversion("committed")
	m.ObserveConversion("not_found")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Conversions.WithLabelValues("committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conversions.WithLabelValues("not_found")))
}

func TestHandler_ExposesRegisteredCollectors(t *testing.T) {
	m := NewServerMetrics("test", prometheus.NewRegistry())
	m.ObserveConversion("committed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "commerce_test_order_conversions_total"))
}
