package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/leads/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/leads/{id}", "404"))
	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leads/"+id, nil))
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/leads/{id}", "404"))
	assert.Equal(t, 3.0, after-before)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(leadTransitions.WithLabelValues("ready_to_close", "closed_won"))
	RecordLeadTransition("ready_to_close", "closed_won")
	assert.Equal(t, 1.0, testutil.ToFloat64(leadTransitions.WithLabelValues("ready_to_close", "closed_won"))-before)

	before = testutil.ToFloat64(advisorMetricIncrements.WithLabelValues("sale"))
	RecordMetricIncrement("sale")
	assert.Equal(t, 1.0, testutil.ToFloat64(advisorMetricIncrements.WithLabelValues("sale"))-before)

	before = testutil.ToFloat64(leadsCreated.WithLabelValues("rent"))
	RecordLeadCreated("rent")
	assert.Equal(t, 1.0, testutil.ToFloat64(leadsCreated.WithLabelValues("rent"))-before)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/leads", nil))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, int64(201), fields["status"])
		assert.Equal(t, "/leads", fields["path"])
		assert.Equal(t, int64(2), fields["bytes"])
	}
}
