package decline

import (
	"math"

	"github.com/de-tools/decline-atlas/pkg/models/domain"
)

// Model is a fitted Arps decline law. Time is measured in periods since the
// first anchor (tau = t - t1).
type Model interface {
	Type() domain.DeclineType
	// Rate evaluates q(tau). Negative tau is rejected with ErrNegativeTime.
	Rate(tau float64) (float64, error)
	// TimeToRate inverts the law. ok is false when q is never reached.
	TimeToRate(q float64) (tau float64, ok bool)
	Parameters() domain.DeclineParameters
}

// Exponential decline: q(tau) = Qi * exp(-D*tau).
type Exponential struct {
	Qi float64
	D  float64
}

func (m Exponential) Type() domain.DeclineType { return domain.DeclineTypeExponential }

func (m Exponential) Rate(tau float64) (float64, error) {
	if tau < 0 {
		return 0, ErrNegativeTime
	}
	return m.Qi * math.Exp(-m.D*tau), nil
}

func (m Exponential) TimeToRate(q float64) (float64, bool) {
	if q >= m.Qi {
		return 0, true
	}
	if q <= 0 || m.D <= 0 {
		return 0, false
	}
	return math.Log(m.Qi/q) / m.D, true
}

func (m Exponential) Parameters() domain.DeclineParameters {
	return domain.DeclineParameters{Type: m.Type(), Qi: m.Qi, D: m.D, B: 0}
}

// Hyperbolic decline: q(tau) = Qi / (1 + B*Di*tau)^(1/B), with B in (0,1).
type Hyperbolic struct {
	Qi float64
	Di float64
	B  float64
}

func (m Hyperbolic) Type() domain.DeclineType { return domain.DeclineTypeHyperbolic }

func (m Hyperbolic) Rate(tau float64) (float64, error) {
	if tau < 0 {
		return 0, ErrNegativeTime
	}
	return m.Qi / math.Pow(1+m.B*m.Di*tau, 1/m.B), nil
}

func (m Hyperbolic) TimeToRate(q float64) (float64, bool) {
	if q >= m.Qi {
		return 0, true
	}
	if q <= 0 || m.Di <= 0 {
		return 0, false
	}
	return (math.Pow(m.Qi/q, m.B) - 1) / (m.B * m.Di), true
}

func (m Hyperbolic) Parameters() domain.DeclineParameters {
	return domain.DeclineParameters{Type: m.Type(), Qi: m.Qi, D: m.Di, B: m.B}
}

// Harmonic decline: q(tau) = Qi / (1 + Di*tau), i.e. hyperbolic with b = 1.
type Harmonic struct {
	Qi float64
	Di float64
}

func (m Harmonic) Type() domain.DeclineType { return domain.DeclineTypeHarmonic }

func (m Harmonic) Rate(tau float64) (float64, error) {
	if tau < 0 {
		return 0, ErrNegativeTime
	}
	return m.Qi / (1 + m.Di*tau), nil
}

func (m Harmonic) TimeToRate(q float64) (float64, bool) {
	if q >= m.Qi {
		return 0, true
	}
	if q <= 0 || m.Di <= 0 {
		return 0, false
	}
	return (m.Qi/q - 1) / m.Di, true
}

func (m Harmonic) Parameters() domain.DeclineParameters {
	return domain.DeclineParameters{Type: m.Type(), Qi: m.Qi, D: m.Di, B: 1}
}
