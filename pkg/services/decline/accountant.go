package decline

import (
	"fmt"
	"time"

	"github.com/de-tools/decline-atlas/pkg/models/domain"
)

const (
	// DefaultVolumeScale converts barrels to millions of barrels.
	DefaultVolumeScale = 1_000_000
	DefaultVolumeUnit  = "MMbbl"
)

// Cumulative holds volumes in the reporting unit.
type Cumulative struct {
	Observed     float64
	Extrapolated float64
	Total        float64

	ObservedSeries     []float64 // running Np over 0..t1
	ExtrapolatedSeries []float64 // running Np over the curve, starting from Observed
}

// Accountant turns rate series into volumes. Each rate counts as one
// period's production.
type Accountant struct {
	scale float64
}

func NewAccountant(volumeScale float64) (*Accountant, error) {
	if !(volumeScale > 0) {
		return nil, fmt.Errorf("volume scale must be positive, got %v", volumeScale)
	}
	return &Accountant{scale: volumeScale}, nil
}

// Observed sums the original rates from index 0 through t1 inclusive.
func (a *Accountant) Observed(originalQ []float64, t1 int) (float64, []float64) {
	series := make([]float64, 0, t1+1)
	var raw float64
	for i := 0; i <= t1 && i < len(originalQ); i++ {
		raw += originalQ[i]
		series = append(series, raw/a.scale)
	}
	return raw / a.scale, series
}

// Extrapolated sums the curve rates. The running series continues from
// observed so that its last element equals observed + extrapolated.
func (a *Accountant) Extrapolated(curve []domain.CurvePoint, observed float64) (float64, []float64) {
	series := make([]float64, 0, len(curve))
	var raw float64
	for _, p := range curve {
		raw += p.Qt
		series = append(series, observed+raw/a.scale)
	}
	return raw / a.scale, series
}

func (a *Accountant) Account(originalQ []float64, t1 int, curve []domain.CurvePoint) Cumulative {
	observed, observedSeries := a.Observed(originalQ, t1)
	extrapolated, extrapolatedSeries := a.Extrapolated(curve, observed)

	return Cumulative{
		Observed:           observed,
		Extrapolated:       extrapolated,
		Total:              observed + extrapolated,
		ObservedSeries:     observedSeries,
		ExtrapolatedSeries: extrapolatedSeries,
	}
}

// AbandonmentDate maps tFinal onto the calendar. The date at t1 is
// startDate plus t1 days, given the daily sampling cadence.
func AbandonmentDate(startDate time.Time, t1 int, tFinal *int) *time.Time {
	if tFinal == nil {
		return nil
	}
	anchorDate := startDate.AddDate(0, 0, t1)
	date := anchorDate.AddDate(0, 0, *tFinal-t1)
	return &date
}
