package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/de-tools/decline-atlas/pkg/models/domain"
	"github.com/de-tools/decline-atlas/pkg/services/config"
	"github.com/de-tools/decline-atlas/pkg/services/decline"
	"github.com/rs/zerolog"
)

type Forecaster interface {
	Forecast(ctx context.Context, req domain.ForecastRequest) (*domain.DeclineResult, error)
	SupportedTypes() []domain.DeclineType
	DefaultCutoff() float64
}

// Engine composes fitting, curve generation and volume accounting. It keeps
// no per-request state and is safe for concurrent use.
type Engine struct {
	registry   decline.Registry
	accountant *decline.Accountant
	settings   config.Settings
}

// NewEngine builds an engine from settings. A nil registry is replaced by the
// default Arps registry using settings.HyperbolicB.
func NewEngine(settings config.Settings, registry decline.Registry) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	if registry == nil {
		var err error
		registry, err = decline.NewDefaultRegistry(settings.HyperbolicB)
		if err != nil {
			return nil, err
		}
	}

	accountant, err := decline.NewAccountant(settings.VolumeScale)
	if err != nil {
		return nil, err
	}

	return &Engine{
		registry:   registry,
		accountant: accountant,
		settings:   settings,
	}, nil
}

func (e *Engine) SupportedTypes() []domain.DeclineType {
	return e.registry.ListTypes()
}

func (e *Engine) DefaultCutoff() float64 {
	return e.settings.DefaultCutoff
}

func (e *Engine) Forecast(ctx context.Context, req domain.ForecastRequest) (*domain.DeclineResult, error) {
	logger := zerolog.Ctx(ctx)

	if err := validate(req); err != nil {
		return nil, err
	}

	fitter, err := e.registry.Fitter(req.DeclineType)
	if err != nil {
		return nil, err
	}

	model, err := fitter.Fit(req.First, req.Second)
	if err != nil {
		return nil, err
	}
	params := model.Parameters()
	logger.Debug().
		Str("type", string(params.Type)).
		Float64("qi", params.Qi).
		Float64("d", params.D).
		Float64("b", params.B).
		Msg("fitted decline model")

	curve, err := decline.GenerateCurve(model, req.First, decline.CurveOptions{
		Cutoff:     req.Cutoff,
		MaxPeriods: e.settings.MaxPeriods,
	})
	var horizonErr *decline.HorizonExceededError
	switch {
	case errors.As(err, &horizonErr):
		logger.Warn().
			Err(horizonErr).
			Int("t1", req.First.T).
			Msg("cutoff not reached within horizon")
	case err != nil:
		return nil, err
	}

	cumulative := e.accountant.Account(req.OriginalQ, req.First.T, curve.Points)

	result := &domain.DeclineResult{
		Parameters:             params,
		Curve:                  curve.Points,
		NpObserved:             cumulative.Observed,
		NpExtrapolated:         cumulative.Extrapolated,
		NpTotal:                cumulative.Total,
		TFinal:                 curve.TFinal,
		DateFinal:              decline.AbandonmentDate(req.StartDate, req.First.T, curve.TFinal),
		HorizonExceeded:        horizonErr != nil,
		VolumeUnit:             e.settings.VolumeUnit,
		ObservedCumulative:     cumulative.ObservedSeries,
		ExtrapolatedCumulative: cumulative.ExtrapolatedSeries,
	}
	if tau, ok := model.TimeToRate(req.Cutoff); ok {
		result.TauAbandon = &tau
	}

	return result, nil
}

func validate(req domain.ForecastRequest) error {
	n := len(req.OriginalQ)
	t1, t2 := req.First.T, req.Second.T

	switch {
	case n == 0:
		return &decline.InvalidAnchorError{Field: "original_q", Reason: "series is empty"}
	case t1 < 0:
		return &decline.InvalidAnchorError{Field: "t1", Reason: fmt.Sprintf("must not be negative, got %d", t1)}
	case t1 >= t2:
		return &decline.InvalidAnchorError{Field: "t2", Reason: fmt.Sprintf("must be greater than t1=%d, got %d", t1, t2)}
	case t2 >= n:
		return &decline.InvalidAnchorError{Field: "t2", Reason: fmt.Sprintf("index %d out of range for %d samples", t2, n)}
	}

	if !isPositiveRate(req.First.Q) {
		return &decline.InvalidAnchorError{Field: "q1", Reason: fmt.Sprintf("must be a positive finite rate, got %v", req.First.Q)}
	}
	if !isPositiveRate(req.Second.Q) {
		return &decline.InvalidAnchorError{Field: "q2", Reason: fmt.Sprintf("must be a positive finite rate, got %v", req.Second.Q)}
	}
	if req.First.Q < req.Second.Q {
		return &decline.InvalidAnchorError{
			Field:  "q2",
			Reason: fmt.Sprintf("rate %v exceeds q1=%v, trend is not declining", req.Second.Q, req.First.Q),
		}
	}
	if !isPositiveRate(req.Cutoff) {
		return &decline.InvalidAnchorError{Field: "qf", Reason: fmt.Sprintf("must be a positive finite rate, got %v", req.Cutoff)}
	}
	if req.StartDate.IsZero() {
		return &decline.InvalidAnchorError{Field: "start_date", Reason: "is required"}
	}

	for i, q := range req.OriginalQ {
		if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
			return &decline.InvalidAnchorError{
				Field:  fmt.Sprintf("original_q[%d]", i),
				Reason: fmt.Sprintf("must be a non-negative finite rate, got %v", q),
			}
		}
	}
	return nil
}

func isPositiveRate(q float64) bool {
	return q > 0 && !math.IsInf(q, 1)
}
