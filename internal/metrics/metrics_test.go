package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveStage(t *testing.T) {
	m := New()
	m.ObserveStage(StageSearch, OutcomeOK, 120*time.Millisecond)
	m.ObserveStage(StageSearch, OutcomeOK, 80*time.Millisecond)
	m.ObserveStage(StageSearch, OutcomeError, time.Second)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "sensei_stage_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			var outcome string
			for _, l := range metric.GetLabel() {
				if l.GetName() == "outcome" {
					outcome = l.GetValue()
				}
			}
			counts[outcome] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 2.0, counts[OutcomeOK])
	assert.Equal(t, 1.0, counts[OutcomeError])
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveStage(StageRetrieve, OutcomeOK, time.Millisecond) })
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveStage(StageAdjudicate, OutcomeOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics/prometheus", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sensei_stage_total{outcome="ok",stage="adjudicate"} 1`)
	assert.Contains(t, rec.Body.String(), "sensei_stage_duration_seconds_bucket")
}
