package decline

import (
	"errors"
	"fmt"

	"github.com/de-tools/decline-atlas/pkg/models/domain"
)

// ErrNegativeTime is returned when a rate is requested before the anchor.
var ErrNegativeTime = errors.New("time since anchor must not be negative")

// InvalidAnchorError rejects a request before any computation.
type InvalidAnchorError struct {
	Field  string
	Reason string
}

func (e *InvalidAnchorError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidAnchor(field, format string, args ...any) *InvalidAnchorError {
	return &InvalidAnchorError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DegenerateFitError is returned when the anchors cannot determine a model,
// e.g. both anchors share the same time index.
type DegenerateFitError struct {
	Type   domain.DeclineType
	Reason string
}

func (e *DegenerateFitError) Error() string {
	return fmt.Sprintf("degenerate %s fit: %s", e.Type, e.Reason)
}

// UnsupportedModelError is returned for a decline type with no registered fitter.
type UnsupportedModelError struct {
	Type domain.DeclineType
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("unsupported decline type %q", e.Type)
}

// HorizonExceededError is soft: the curve reached its iteration ceiling
// without crossing the cutoff. The partial curve is still valid.
type HorizonExceededError struct {
	Cutoff     float64
	MaxPeriods int
	LastRate   float64
}

func (e *HorizonExceededError) Error() string {
	return fmt.Sprintf("rate %.4f still above cutoff %.4f after %d periods", e.LastRate, e.Cutoff, e.MaxPeriods)
}
