package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware(t *testing.T) {
	newRouter := func(t *testing.T) (*gin.Engine, *prometheus.Registry) {
		t.Helper()
		reg := prometheus.NewRegistry()
		m, err := NewMetricsMiddleware(reg)
		require.NoError(t, err)
		router := gin.New()
		router.Use(m.Handler())
		router.GET("/documents/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router, reg
	}

	pathLabels := func(t *testing.T, reg *prometheus.Registry, metric string) []string {
		t.Helper()
		families, err := reg.Gather()
		require.NoError(t, err)
		var out []string
		for _, mf := range families {
			if mf.GetName() != metric {
				continue
			}
			for _, m := range mf.GetMetric() {
				for _, pair := range m.GetLabel() {
					if pair.GetName() == "path" {
						out = append(out, pair.GetValue())
					}
				}
			}
		}
		return out
	}

	t.Run("matched routes are labeled with the route pattern", func(t *testing.T) {
		router, reg := newRouter(t)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/42", nil))

		for _, metric := range []string{"http_requests_total", "http_request_duration_seconds"} {
			labels := pathLabels(t, reg, metric)
			require.Len(t, labels, 1, metric)
			assert.Equal(t, "/documents/:id", labels[0], metric)
		}
	})

	t.Run("unmatched routes use the same label on both collectors", func(t *testing.T) {
		router, reg := newRouter(t)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

		for _, metric := range []string{"http_requests_total", "http_request_duration_seconds"} {
			labels := pathLabels(t, reg, metric)
			require.Len(t, labels, 1, metric)
			assert.Equal(t, "unmatched", labels[0], metric)
		}
	})
}
