package adapters

import (
	"fmt"
	"time"

	"github.com/de-tools/decline-atlas/pkg/models/api"
	"github.com/de-tools/decline-atlas/pkg/models/domain"
	"github.com/de-tools/decline-atlas/pkg/services/decline"
)

func MapForecastRequestApiToDomain(req api.ForecastRequest, defaultCutoff float64) (domain.ForecastRequest, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return domain.ForecastRequest{}, err
	}

	return domain.ForecastRequest{
		First:       domain.AnchorPoint{T: req.T1, Q: req.Q1},
		Second:      domain.AnchorPoint{T: req.T2, Q: req.Q2},
		OriginalQ:   req.OriginalQ,
		StartDate:   startDate,
		DeclineType: domain.DeclineType(req.DeclineType),
		Cutoff:      valueOr(req.Qf, defaultCutoff),
	}, nil
}

// MapWellForecastRequestApiToDomain fills the series from stored samples. Anchor
// rates not given in the request are read from the series.
func MapWellForecastRequestApiToDomain(
	req api.WellForecastRequest,
	samples []domain.ProductionSample,
	defaultCutoff float64,
) domain.ForecastRequest {
	rates, startDate := MapSamplesToSeries(samples)

	return domain.ForecastRequest{
		First:       domain.AnchorPoint{T: req.T1, Q: valueOr(req.Q1, rateAt(rates, req.T1))},
		Second:      domain.AnchorPoint{T: req.T2, Q: valueOr(req.Q2, rateAt(rates, req.T2))},
		OriginalQ:   rates,
		StartDate:   startDate,
		DeclineType: domain.DeclineType(req.DeclineType),
		Cutoff:      valueOr(req.Qf, defaultCutoff),
	}
}

func MapDeclineResultDomainToApi(res *domain.DeclineResult) api.ForecastResponse {
	resp := api.ForecastResponse{
		Parameters:           MapDeclineParametersDomainToApi(res.Parameters),
		D:                    res.Parameters.D,
		Curve:                make([]api.CurvePoint, 0, len(res.Curve)),
		NpObserved:           res.NpObserved,
		NpExtrapolated:       res.NpExtrapolated,
		NpTotal:              res.NpTotal,
		TFinal:               res.TFinal,
		TauAbandon:           res.TauAbandon,
		HorizonExceeded:      res.HorizonExceeded,
		VolumeUnit:           res.VolumeUnit,
		NpObservedSeries:     res.ObservedCumulative,
		NpExtrapolatedSeries: res.ExtrapolatedCumulative,
	}

	for _, p := range res.Curve {
		resp.Curve = append(resp.Curve, api.CurvePoint{T: p.T, Qt: p.Qt})
	}

	if res.DateFinal != nil {
		date := res.DateFinal.Format(api.DateLayout)
		resp.DateFinal = &date
	}

	return resp
}

func MapDeclineParametersDomainToApi(p domain.DeclineParameters) api.DeclineParameters {
	return api.DeclineParameters{
		Type: string(p.Type),
		Qi:   p.Qi,
		D:    p.D,
		B:    p.B,
	}
}

// MapSamplesToSeries splits samples into the rate series and the date at index 0.
func MapSamplesToSeries(samples []domain.ProductionSample) ([]float64, time.Time) {
	if len(samples) == 0 {
		return nil, time.Time{}
	}

	rates := make([]float64, len(samples))
	for i, s := range samples {
		rates[i] = s.FlowRate
	}
	return rates, samples[0].Date
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &decline.InvalidAnchorError{Field: "start_date", Reason: "is required"}
	}

	date, err := time.Parse(api.DateLayout, value)
	if err != nil {
		return time.Time{}, &decline.InvalidAnchorError{
			Field:  "start_date",
			Reason: fmt.Sprintf("expected %s, got %q", api.DateLayout, value),
		}
	}
	return date, nil
}

func rateAt(rates []float64, t int) float64 {
	if t < 0 || t >= len(rates) {
		return 0
	}
	return rates[t]
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
