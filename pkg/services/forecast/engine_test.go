package forecast

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/de-tools/decline-atlas/pkg/models/domain"
	"github.com/de-tools/decline-atlas/pkg/services/config"
	"github.com/de-tools/decline-atlas/pkg/services/decline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var startDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func newEngine(t *testing.T, mutate ...func(*config.Settings)) *Engine {
	t.Helper()
	settings := config.DefaultSettings()
	for _, m := range mutate {
		m(&settings)
	}
	engine, err := NewEngine(settings, nil)
	require.NoError(t, err)
	return engine
}

// halvingRequest describes a well falling from 1000 to 500 over ten periods.
func halvingRequest(declineType domain.DeclineType) domain.ForecastRequest {
	originalQ := make([]float64, 11)
	for i := range originalQ {
		originalQ[i] = 1000 - 50*float64(i)
	}
	return domain.ForecastRequest{
		First:       domain.AnchorPoint{T: 0, Q: 1000},
		Second:      domain.AnchorPoint{T: 10, Q: 500},
		OriginalQ:   originalQ,
		StartDate:   startDate,
		DeclineType: declineType,
		Cutoff:      50,
	}
}

func TestEngine_ExponentialScenario(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Forecast(context.Background(), halvingRequest(domain.DeclineTypeExponential))
	require.NoError(t, err)

	assert.Equal(t, domain.DeclineTypeExponential, result.Parameters.Type)
	assert.Equal(t, 1000.0, result.Parameters.Qi)
	assert.InDelta(t, math.Ln2/10, result.Parameters.D, 1e-12)

	require.NotNil(t, result.TFinal)
	assert.Equal(t, 44, *result.TFinal)
	assert.Len(t, result.Curve, 45)

	require.NotNil(t, result.DateFinal)
	assert.Equal(t, "2024-02-14", result.DateFinal.Format(time.DateOnly))

	require.NotNil(t, result.TauAbandon)
	assert.InDelta(t, 43.219, *result.TauAbandon, 1e-3)
	assert.False(t, result.HorizonExceeded)
	assert.Equal(t, decline.DefaultVolumeUnit, result.VolumeUnit)

	assert.InDelta(t, 0.001, result.NpObserved, 1e-12)
	assert.Equal(t, result.NpObserved+result.NpExtrapolated, result.NpTotal)
}

func TestEngine_HyperbolicScenario(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Forecast(context.Background(), halvingRequest(domain.DeclineTypeHyperbolic))
	require.NoError(t, err)

	assert.Equal(t, 0.5, result.Parameters.B)
	assert.InDelta(t, 0.0828427, result.Parameters.D, 1e-6)
	assert.InDelta(t, 500, result.Curve[10].Qt, 1e-9)
}

func TestEngine_HarmonicScenario(t *testing.T) {
	engine := newEngine(t)

	req := halvingRequest(domain.DeclineTypeHarmonic)
	req.Cutoff = 49

	result, err := engine.Forecast(context.Background(), req)
	require.NoError(t, err)

	assert.InDelta(t, 0.1, result.Parameters.D, 1e-12)
	assert.InDelta(t, 1000.0/3, result.Curve[20].Qt, 1e-9)

	// (1000/49 - 1) / 0.1 ~ 194.08
	require.NotNil(t, result.TFinal)
	assert.Equal(t, 195, *result.TFinal)
}

func TestEngine_VolumeAccounting(t *testing.T) {
	engine := newEngine(t, func(s *config.Settings) {
		s.VolumeScale = 1
		s.VolumeUnit = "bbl"
	})

	req := halvingRequest(domain.DeclineTypeExponential)
	req.First = domain.AnchorPoint{T: 2, Q: req.OriginalQ[2]}
	req.Second = domain.AnchorPoint{T: 8, Q: req.OriginalQ[8]}

	result, err := engine.Forecast(context.Background(), req)
	require.NoError(t, err)

	// 1000 + 950 + 900
	assert.Equal(t, 2850.0, result.NpObserved)
	assert.Equal(t, []float64{1000, 1950, 2850}, result.ObservedCumulative)

	var curveSum float64
	for _, p := range result.Curve {
		curveSum += p.Qt
	}
	assert.InDelta(t, curveSum, result.NpExtrapolated, 1e-9)
	assert.Equal(t, result.NpObserved+result.NpExtrapolated, result.NpTotal)

	require.Len(t, result.ExtrapolatedCumulative, len(result.Curve))
	assert.InDelta(t, result.NpTotal, result.ExtrapolatedCumulative[len(result.ExtrapolatedCumulative)-1], 1e-9)
	assert.Equal(t, 2, result.Curve[0].T)
	assert.Equal(t, "bbl", result.VolumeUnit)
}

func TestEngine_CutoffAtOrAboveQ1(t *testing.T) {
	engine := newEngine(t)

	req := halvingRequest(domain.DeclineTypeExponential)
	req.Cutoff = 1500

	result, err := engine.Forecast(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, result.Curve, 1)
	require.NotNil(t, result.TFinal)
	assert.Equal(t, 0, *result.TFinal)
	assert.Equal(t, "2024-01-01", result.DateFinal.Format(time.DateOnly))
	assert.Equal(t, 0.0, *result.TauAbandon)
}

func TestEngine_FlatTrendExceedsHorizon(t *testing.T) {
	engine := newEngine(t, func(s *config.Settings) { s.MaxPeriods = 30 })

	req := halvingRequest(domain.DeclineTypeExponential)
	req.Second = domain.AnchorPoint{T: 10, Q: 1000}

	result, err := engine.Forecast(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, result.HorizonExceeded)
	assert.Nil(t, result.TFinal)
	assert.Nil(t, result.DateFinal)
	assert.Nil(t, result.TauAbandon)
	assert.Len(t, result.Curve, 30)
	assert.Equal(t, 0.0, result.Parameters.D)
}

func TestEngine_Idempotent(t *testing.T) {
	engine := newEngine(t)
	req := halvingRequest(domain.DeclineTypeHyperbolic)

	first, err := engine.Forecast(context.Background(), req)
	require.NoError(t, err)
	second, err := engine.Forecast(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_Validation(t *testing.T) {
	engine := newEngine(t)

	tests := []struct {
		name   string
		mutate func(*domain.ForecastRequest)
		field  string
	}{
		{"empty series", func(r *domain.ForecastRequest) { r.OriginalQ = nil }, "original_q"},
		{"negative t1", func(r *domain.ForecastRequest) { r.First.T = -1 }, "t1"},
		{"t1 equals t2", func(r *domain.ForecastRequest) { r.First.T = 10 }, "t2"},
		{"t2 before t1", func(r *domain.ForecastRequest) { r.First.T = 4; r.Second.T = 3 }, "t2"},
		{"t2 out of range", func(r *domain.ForecastRequest) { r.Second.T = 11 }, "t2"},
		{"zero q1", func(r *domain.ForecastRequest) { r.First.Q = 0 }, "q1"},
		{"NaN q2", func(r *domain.ForecastRequest) { r.Second.Q = math.NaN() }, "q2"},
		{"rising trend", func(r *domain.ForecastRequest) { r.Second.Q = 1200 }, "q2"},
		{"zero cutoff", func(r *domain.ForecastRequest) { r.Cutoff = 0 }, "qf"},
		{"infinite cutoff", func(r *domain.ForecastRequest) { r.Cutoff = math.Inf(1) }, "qf"},
		{"missing start date", func(r *domain.ForecastRequest) { r.StartDate = time.Time{} }, "start_date"},
		{"negative sample", func(r *domain.ForecastRequest) { r.OriginalQ[3] = -5 }, "original_q[3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := halvingRequest(domain.DeclineTypeExponential)
			tt.mutate(&req)

			_, err := engine.Forecast(context.Background(), req)

			var invalid *decline.InvalidAnchorError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestEngine_UnsupportedType(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.Forecast(context.Background(), halvingRequest("modified-hyperbolic"))

	var unsupported *decline.UnsupportedModelError
	assert.ErrorAs(t, err, &unsupported)
}

func TestEngine_CustomRegistry(t *testing.T) {
	registry := decline.NewRegistry()
	require.NoError(t, registry.Register(domain.DeclineTypeHarmonic, decline.FitterFunc(decline.FitHarmonic)))

	engine, err := NewEngine(config.DefaultSettings(), registry)
	require.NoError(t, err)

	assert.Equal(t, []domain.DeclineType{domain.DeclineTypeHarmonic}, engine.SupportedTypes())
	assert.Equal(t, 5.0, engine.DefaultCutoff())

	_, err = engine.Forecast(context.Background(), halvingRequest(domain.DeclineTypeExponential))
	var unsupported *decline.UnsupportedModelError
	assert.ErrorAs(t, err, &unsupported)
}

func TestNewEngine_InvalidSettings(t *testing.T) {
	settings := config.DefaultSettings()
	settings.MaxPeriods = 0

	_, err := NewEngine(settings, nil)
	assert.Error(t, err)
}

func TestEngine_OverflowingRateRatioIsDegenerate(t *testing.T) {
	engine := newEngine(t)

	for _, declineType := range engine.SupportedTypes() {
		t.Run(string(declineType), func(t *testing.T) {
			req := halvingRequest(declineType)
			req.Second = domain.AnchorPoint{T: 1, Q: 1e-310}

			result, err := engine.Forecast(context.Background(), req)

			var degenerate *decline.DegenerateFitError
			require.ErrorAs(t, err, &degenerate)
			assert.Nil(t, result)
		})
	}
}
