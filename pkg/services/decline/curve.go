package decline

import (
	"fmt"
	"math"

	"github.com/de-tools/decline-atlas/pkg/models/domain"
)

// DefaultMaxPeriods caps the forward walk at ten years of daily periods.
const DefaultMaxPeriods = 3650

type CurveOptions struct {
	Cutoff     float64 // economic cutoff rate qf
	MaxPeriods int     // hard ceiling on the number of emitted points
}

type Curve struct {
	Points []domain.CurvePoint
	// TFinal is the absolute index of the first point at or below the
	// cutoff, nil when the cutoff was not reached within MaxPeriods.
	TFinal *int
}

// GenerateCurve walks the model forward one period at a time from the anchor.
// When the cutoff is not crossed the partial curve is returned together with
// a *HorizonExceededError.
func GenerateCurve(model Model, anchor domain.AnchorPoint, opts CurveOptions) (*Curve, error) {
	if !(opts.Cutoff > 0) || math.IsInf(opts.Cutoff, 1) {
		return nil, invalidAnchor("qf", "must be a positive finite rate, got %v", opts.Cutoff)
	}
	if opts.MaxPeriods <= 0 {
		return nil, fmt.Errorf("max periods must be positive, got %d", opts.MaxPeriods)
	}

	curve := &Curve{Points: make([]domain.CurvePoint, 0, expectedLength(model, opts))}
	last := math.Inf(1)
	for tau := 0; tau < opts.MaxPeriods; tau++ {
		qt, err := model.Rate(float64(tau))
		if err != nil {
			return nil, err
		}
		// keep the curve non-increasing under rounding
		qt = math.Min(qt, last)
		last = qt

		t := anchor.T + tau
		curve.Points = append(curve.Points, domain.CurvePoint{T: t, Qt: qt})
		if qt <= opts.Cutoff {
			curve.TFinal = &t
			return curve, nil
		}
	}

	return curve, &HorizonExceededError{Cutoff: opts.Cutoff, MaxPeriods: opts.MaxPeriods, LastRate: last}
}

func expectedLength(model Model, opts CurveOptions) int {
	tau, ok := model.TimeToRate(opts.Cutoff)
	if !ok || tau >= float64(opts.MaxPeriods) {
		return opts.MaxPeriods
	}
	return int(math.Ceil(tau)) + 1
}
