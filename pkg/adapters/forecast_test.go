package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/decline-atlas/pkg/models/api"
	"github.com/de-tools/decline-atlas/pkg/models/domain"
	"github.com/de-tools/decline-atlas/pkg/services/decline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMapForecastRequestApiToDomain(t *testing.T) {
	req := api.ForecastRequest{
		T1:          0,
		Q1:          1000,
		T2:          10,
		Q2:          500,
		OriginalQ:   []float64{1000, 900},
		DeclineType: "harmonic",
		StartDate:   "2024-03-15",
	}

	t.Run("default cutoff", func(t *testing.T) {
		got, err := MapForecastRequestApiToDomain(req, 5)
		require.NoError(t, err)

		assert.Equal(t, domain.ForecastRequest{
			First:       domain.AnchorPoint{T: 0, Q: 1000},
			Second:      domain.AnchorPoint{T: 10, Q: 500},
			OriginalQ:   []float64{1000, 900},
			StartDate:   time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			DeclineType: domain.DeclineTypeHarmonic,
			Cutoff:      5,
		}, got)
	})

	t.Run("explicit cutoff", func(t *testing.T) {
		withCutoff := req
		withCutoff.Qf = ptr(12.5)

		got, err := MapForecastRequestApiToDomain(withCutoff, 5)
		require.NoError(t, err)
		assert.Equal(t, 12.5, got.Cutoff)
	})

	for name, date := range map[string]string{"missing": "", "malformed": "15/03/2024"} {
		t.Run(name+" start date", func(t *testing.T) {
			bad := req
			bad.StartDate = date

			_, err := MapForecastRequestApiToDomain(bad, 5)

			var invalid *decline.InvalidAnchorError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, "start_date", invalid.Field)
		})
	}
}

func TestMapWellForecastRequestApiToDomain(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2023, time.June, d, 0, 0, 0, 0, time.UTC) }
	samples := []domain.ProductionSample{
		{Date: day(1), FlowRate: 800},
		{Date: day(2), FlowRate: 780},
		{Date: day(3), FlowRate: 765},
	}

	t.Run("anchor rates from the series", func(t *testing.T) {
		got := MapWellForecastRequestApiToDomain(api.WellForecastRequest{T1: 0, T2: 2, DeclineType: "exponential"}, samples, 5)

		assert.Equal(t, domain.AnchorPoint{T: 0, Q: 800}, got.First)
		assert.Equal(t, domain.AnchorPoint{T: 2, Q: 765}, got.Second)
		assert.Equal(t, []float64{800, 780, 765}, got.OriginalQ)
		assert.Equal(t, day(1), got.StartDate)
		assert.Equal(t, 5.0, got.Cutoff)
	})

	t.Run("explicit rates win", func(t *testing.T) {
		got := MapWellForecastRequestApiToDomain(api.WellForecastRequest{
			T1: 0, Q1: ptr(810.0), T2: 2, Q2: ptr(760.0), Qf: ptr(20.0),
		}, samples, 5)

		assert.Equal(t, 810.0, got.First.Q)
		assert.Equal(t, 760.0, got.Second.Q)
		assert.Equal(t, 20.0, got.Cutoff)
	})

	t.Run("out of range anchor leaves a zero rate for validation", func(t *testing.T) {
		got := MapWellForecastRequestApiToDomain(api.WellForecastRequest{T1: 0, T2: 9}, samples, 5)
		assert.Equal(t, 0.0, got.Second.Q)
	})
}

func TestMapDeclineResultDomainToApi(t *testing.T) {
	tFinal := 2
	tau := 1.4
	dateFinal := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)

	res := &domain.DeclineResult{
		Parameters:             domain.DeclineParameters{Type: domain.DeclineTypeExponential, Qi: 100, D: 0.3},
		Curve:                  []domain.CurvePoint{{T: 0, Qt: 100}, {T: 1, Qt: 74}, {T: 2, Qt: 55}},
		NpObserved:             0.1,
		NpExtrapolated:         0.229,
		NpTotal:                0.329,
		TFinal:                 &tFinal,
		DateFinal:              &dateFinal,
		TauAbandon:             &tau,
		VolumeUnit:             "Mbbl",
		ObservedCumulative:     []float64{0.1},
		ExtrapolatedCumulative: []float64{0.2, 0.274, 0.329},
	}

	got := MapDeclineResultDomainToApi(res)

	assert.Equal(t, api.DeclineParameters{Type: "exponential", Qi: 100, D: 0.3}, got.Parameters)
	assert.Equal(t, 0.3, got.D)
	assert.Equal(t, []api.CurvePoint{{T: 0, Qt: 100}, {T: 1, Qt: 74}, {T: 2, Qt: 55}}, got.Curve)
	assert.Equal(t, &tFinal, got.TFinal)
	require.NotNil(t, got.DateFinal)
	assert.Equal(t, "2024-01-03", *got.DateFinal)
	assert.Equal(t, 0.329, got.NpTotal)
	assert.Equal(t, "Mbbl", got.VolumeUnit)
	assert.Equal(t, res.ExtrapolatedCumulative, got.NpExtrapolatedSeries)

	res.TFinal, res.DateFinal, res.TauAbandon = nil, nil, nil
	res.HorizonExceeded = true
	got = MapDeclineResultDomainToApi(res)
	assert.Nil(t, got.TFinal)
	assert.Nil(t, got.DateFinal)
	assert.True(t, got.HorizonExceeded)
}

func TestMapSamplesToSeries_Empty(t *testing.T) {
	rates, start := MapSamplesToSeries(nil)
	assert.Nil(t, rates)
	assert.True(t, start.IsZero())
}
