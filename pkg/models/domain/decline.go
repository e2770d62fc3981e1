package domain

import "time"

type DeclineType string

const (
	DeclineTypeExponential DeclineType = "exponential"
	DeclineTypeHyperbolic  DeclineType = "hyperbolic"
	DeclineTypeHarmonic    DeclineType = "harmonic"
)

// ProductionSample is one period (day) of observed production.
type ProductionSample struct {
	Date     time.Time
	FlowRate float64
}

// AnchorPoint is a (time, rate) pair picked on the observed curve.
type AnchorPoint struct {
	T int     // index into the production series
	Q float64 // flow rate at T
}

type CurvePoint struct {
	T  int // absolute series index, t1 + tau
	Qt float64
}

// DeclineParameters describes a fitted model in a transport neutral form.
// B is zero for exponential and one for harmonic decline.
type DeclineParameters struct {
	Type DeclineType
	Qi   float64
	D    float64
	B    float64
}

// ForecastRequest is the immutable input of a single analysis.
type ForecastRequest struct {
	First       AnchorPoint
	Second      AnchorPoint
	OriginalQ   []float64
	StartDate   time.Time
	DeclineType DeclineType
	Cutoff      float64
}

type DeclineResult struct {
	Parameters      DeclineParameters
	Curve           []CurvePoint
	NpObserved      float64
	NpExtrapolated  float64
	NpTotal         float64
	TFinal          *int
	DateFinal       *time.Time
	TauAbandon      *float64
	HorizonExceeded bool
	VolumeUnit      string

	// Running cumulative volumes, in the reporting unit.
	ObservedCumulative     []float64
	ExtrapolatedCumulative []float64
}
