package decline

import (
	"fmt"
	"math"

	"github.com/de-tools/decline-atlas/pkg/models/domain"
)

// DefaultHyperbolicB is the decline exponent used when two anchors leave the
// hyperbolic law underdetermined.
const DefaultHyperbolicB = 0.5

// Fitter derives a model that passes through both anchors.
type Fitter interface {
	Fit(first, second domain.AnchorPoint) (Model, error)
}

type FitterFunc func(first, second domain.AnchorPoint) (Model, error)

func (f FitterFunc) Fit(first, second domain.AnchorPoint) (Model, error) {
	return f(first, second)
}

// FitExponential solves D = ln(q1/q2) / (t2 - t1). Equal rates give D = 0.
func FitExponential(first, second domain.AnchorPoint) (Model, error) {
	dt, err := checkAnchors(domain.DeclineTypeExponential, first, second)
	if err != nil {
		return nil, err
	}
	d := math.Log(first.Q/second.Q) / dt
	if err := checkFitted(domain.DeclineTypeExponential, "D", d); err != nil {
		return nil, err
	}
	return Exponential{Qi: first.Q, D: d}, nil
}

// FitHarmonic solves Di = (q1/q2 - 1) / (t2 - t1).
func FitHarmonic(first, second domain.AnchorPoint) (Model, error) {
	dt, err := checkAnchors(domain.DeclineTypeHarmonic, first, second)
	if err != nil {
		return nil, err
	}
	di := (first.Q/second.Q - 1) / dt
	if err := checkFitted(domain.DeclineTypeHarmonic, "Di", di); err != nil {
		return nil, err
	}
	return Harmonic{Qi: first.Q, Di: di}, nil
}

// NewHyperbolicFitter fixes the exponent b and solves
// Di = ((q1/q2)^b - 1) / (b * (t2 - t1)).
func NewHyperbolicFitter(b float64) (Fitter, error) {
	if !(b > 0 && b < 1) {
		return nil, fmt.Errorf("hyperbolic exponent b must be in (0,1), got %v", b)
	}

	return FitterFunc(func(first, second domain.AnchorPoint) (Model, error) {
		dt, err := checkAnchors(domain.DeclineTypeHyperbolic, first, second)
		if err != nil {
			return nil, err
		}
		di := (math.Pow(first.Q/second.Q, b) - 1) / (b * dt)
		if err := checkFitted(domain.DeclineTypeHyperbolic, "Di", di); err != nil {
			return nil, err
		}
		return Hyperbolic{Qi: first.Q, Di: di, B: b}, nil
	}), nil
}

func checkAnchors(declineType domain.DeclineType, first, second domain.AnchorPoint) (float64, error) {
	if first.T == second.T {
		return 0, &DegenerateFitError{Type: declineType, Reason: fmt.Sprintf("both anchors at t=%d", first.T)}
	}
	if second.T < first.T {
		return 0, &DegenerateFitError{
			Type:   declineType,
			Reason: fmt.Sprintf("second anchor t=%d precedes first anchor t=%d", second.T, first.T),
		}
	}
	if !(first.Q > 0) {
		return 0, invalidAnchor("q1", "must be positive, got %v", first.Q)
	}
	if !(second.Q > 0) {
		return 0, invalidAnchor("q2", "must be positive, got %v", second.Q)
	}
	return float64(second.T - first.T), nil
}

// checkFitted rejects decline rates that overflowed, e.g. when q1/q2 exceeds
// the float64 range.
func checkFitted(declineType domain.DeclineType, name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &DegenerateFitError{
			Type:   declineType,
			Reason: fmt.Sprintf("%s is not finite (%v), anchor rate ratio out of range", name, value),
		}
	}
	return nil
}
