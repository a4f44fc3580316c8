package domains

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/mist-regions/internal/region"
)

// Resolver reduces the domain predictions of one protein to a
// non-overlapping architecture.
type Resolver struct {
	Tolerance         int
	Threshold         float64
	SkipInsignificant bool

	logger *zap.Logger
}

// NewResolver creates a resolver with the default tolerance and threshold.
func NewResolver() *Resolver {
	return &Resolver{
		Tolerance: DefaultTolerance,
		Threshold: DefaultThreshold,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Resolve removes insignificant overlaps (unless SkipInsignificant is set),
// then keeps the best scoring domain of each remaining overlap, and returns
// the survivors sorted by start position.
func (r *Resolver) Resolve(ds []*Domain) ([]*Domain, error) {
	kept := ds
	if !r.SkipInsignificant {
		var err error
		kept, err = RemoveInsignificantOverlaps(kept, r.Tolerance, r.Threshold)
		if err != nil {
			return nil, fmt.Errorf("remove insignificant overlaps: %w", err)
		}
	}

	kept, err := RemoveOverlappingDomains(region.NewContainer(), kept, r.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("remove overlapping domains: %w", err)
	}
	SortByStart(kept)

	if dropped := len(ds) - len(kept); dropped > 0 {
		r.logger.Debug("resolved domain overlaps",
			zap.Int("input", len(ds)),
			zap.Int("kept", len(kept)),
			zap.Int("dropped", dropped))
	}

	return kept, nil
}
