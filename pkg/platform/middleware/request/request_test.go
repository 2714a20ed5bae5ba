package request

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentry/pkg/requestcontext"
)

func TestRequestID(t *testing.T) {
	capture := func(captured *string) http.Handler {
		return RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*captured = requestcontext.RequestID(r.Context())
			w.WriteHeader(http.StatusOK)
		}))
	}

	t.Run("generates UUID when no header provided", func(t *testing.T) {
		var id string
		w := httptest.NewRecorder()
		capture(&id).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/consent/scripts", nil))

		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Header().Get("X-Request-ID"))
	})

	t.Run("keeps a valid client-provided ID", func(t *testing.T) {
		var id string
		req := httptest.NewRequest(http.MethodGet, "/consent/scripts", nil)
		req.Header.Set("X-Request-ID", "bootstrap.load_42")
		w := httptest.NewRecorder()
		capture(&id).ServeHTTP(w, req)

		assert.Equal(t, "bootstrap.load_42", id)
	})

	t.Run("replaces IDs that could inject log lines", func(t *testing.T) {
		for _, bad := range []string{"a\nb", "has space", `q"uote`, strings.Repeat("x", MaxRequestIDLength+1)} {
			var id string
			req := httptest.NewRequest(http.MethodGet, "/consent/scripts", nil)
			req.Header.Set("X-Request-ID", bad)
			capture(&id).ServeHTTP(httptest.NewRecorder(), req)

			assert.NotEqual(t, bad, id)
			assert.Len(t, id, 36)
		}
	})
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("template exploded")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/consent/modal", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "template exploded")
}

func TestLogger(t *testing.T) {
	t.Run("logs anonymized client prefix", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

		req := httptest.NewRequest(http.MethodPost, "/consent/save", nil)
		req = req.WithContext(requestcontext.WithClientMetadata(req.Context(), "198.51.100.23", "ua"))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		out := buf.String()
		assert.Contains(t, out, `"status":201`)
		assert.Contains(t, out, "198.51.100.0")
		assert.NotContains(t, out, "198.51.100.23")
	})

	t.Run("skips healthy probes", func(t *testing.T) {
		var buf bytes.Buffer
		handler := Logger(slog.New(slog.NewJSONHandler(&buf, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Empty(t, buf.String())
	})
}

func TestLatencyMiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	r := chi.NewRouter()
	r.Use(LatencyMiddleware(m))
	r.Get("/consent/cookies/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, slug := range []string{"analytics", "marketing"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/consent/cookies/"+slug, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.EndpointLatency))
	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	metric := families[0].GetMetric()[0]
	assert.Equal(t, uint64(2), metric.GetHistogram().GetSampleCount())
	labels := map[string]string{}
	for _, l := range metric.GetLabel() {
		labels[l.GetName()] = l.GetValue()
	}
	assert.Equal(t, "/consent/cookies/{slug}", labels["endpoint"])
	assert.Equal(t, http.MethodGet, labels["method"])
}

func TestLatencyMiddlewareToleratesNilMetrics(t *testing.T) {
	h := LatencyMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestTimePinsOneInstantPerRequest(t *testing.T) {
	var first, second time.Time
	h := Time(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first = requestcontext.Now(r.Context())
		time.Sleep(5 * time.Millisecond)
		second = requestcontext.Now(r.Context())
	}))

	before := time.Now()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, first, second)
	assert.False(t, first.Before(before.Truncate(time.Microsecond)))
	assert.Equal(t, time.UTC, first.Location())
}
