package decline

import (
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/decline-atlas/pkg/models/domain"
)

// Registry manages the fitters available for each decline type
type Registry interface {
	// Register adds a fitter for a decline type
	Register(declineType domain.DeclineType, fitter Fitter) error
	// Fitter returns the fitter registered for the decline type
	Fitter(declineType domain.DeclineType) (Fitter, error)
	// ListTypes returns the registered decline types in name order
	ListTypes() []domain.DeclineType
}

type registry struct {
	mu      sync.RWMutex
	fitters map[domain.DeclineType]Fitter
}

// NewRegistry creates an empty fitter registry
func NewRegistry() Registry {
	return &registry{
		fitters: make(map[domain.DeclineType]Fitter),
	}
}

// NewDefaultRegistry registers the three Arps laws, using hyperbolicB as the
// fixed hyperbolic exponent.
func NewDefaultRegistry(hyperbolicB float64) (Registry, error) {
	hyperbolic, err := NewHyperbolicFitter(hyperbolicB)
	if err != nil {
		return nil, err
	}

	r := NewRegistry()
	for declineType, fitter := range map[domain.DeclineType]Fitter{
		domain.DeclineTypeExponential: FitterFunc(FitExponential),
		domain.DeclineTypeHarmonic:    FitterFunc(FitHarmonic),
		domain.DeclineTypeHyperbolic:  hyperbolic,
	} {
		if err := r.Register(declineType, fitter); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *registry) Register(declineType domain.DeclineType, fitter Fitter) error {
	if declineType == "" {
		return fmt.Errorf("decline type cannot be empty")
	}
	if fitter == nil {
		return fmt.Errorf("fitter cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fitters[declineType]; exists {
		return fmt.Errorf("decline type %q is already registered", declineType)
	}

	r.fitters[declineType] = fitter
	return nil
}

func (r *registry) Fitter(declineType domain.DeclineType) (Fitter, error) {
	r.mu.RLock()
	fitter, exists := r.fitters[declineType]
	r.mu.RUnlock()

	if !exists {
		return nil, &UnsupportedModelError{Type: declineType}
	}
	return fitter, nil
}

func (r *registry) ListTypes() []domain.DeclineType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]domain.DeclineType, 0, len(r.fitters))
	for declineType := range r.fitters {
		types = append(types, declineType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
