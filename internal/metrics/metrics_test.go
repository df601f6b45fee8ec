package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordPlaysIngested(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPlaysIngested("nflverse", 1500, 42)
	})
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPrediction(false)
		RecordPrediction(true)
	})
}

func TestRecordBetRecommendation(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordBetRecommendation("spread")
		RecordBetRecommendation("total")
	})
}

func TestUpdateBacktestResults(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name    string
		roi     float64
		atsRate float64
	}{
		{name: "profitable run", roi: 0.045, atsRate: 0.55},
		{name: "break even", roi: 0, atsRate: 0.5},
		{name: "losing run", roi: -0.08, atsRate: 0.44},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateBacktestResults(tt.roi, tt.atsRate)
			})
		})
	}
}

func TestRecordDurations(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordIngestionDuration("nflverse", 12.5)
		RecordBacktestDuration(0.8)
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}

func BenchmarkRecordPrediction(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordPrediction(false)
	}
}
