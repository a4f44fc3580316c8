// Package domains resolves conflicting protein domain predictions.
package domains

import (
	"fmt"
	"sort"

	"github.com/inodb/mist-regions/internal/region"
)

// Default resolver parameters.
const (
	// DefaultTolerance is the number of residues two domains may share
	// before they are considered to overlap.
	DefaultTolerance = 10
	// DefaultThreshold is the e-value difference above which an overlapping
	// prediction is treated as insignificant.
	DefaultThreshold = 0.001
)

// Domain is a single predicted domain on a protein sequence.
type Domain struct {
	ProteinID string  // Query sequence the prediction belongs to
	Name      string  // Source model (e.g., Pfam family)
	Start     int     // 1-based, inclusive
	Stop      int     // 1-based, inclusive
	Score     float64 // Higher is better
	Evalue    float64 // Lower is better
	Data      any     // Caller-owned payload
}

// Region builds a region spanning the domain with d as its data.
func (d *Domain) Region() (*region.Region, error) {
	r, err := region.New(d.Start, d.Stop, d)
	if err != nil {
		return nil, fmt.Errorf("domain %s [%d, %d]: %w", d.Name, d.Start, d.Stop, err)
	}
	return r, nil
}

// Midpoint returns the center of the domain span.
func (d *Domain) Midpoint() float64 {
	return float64(d.Start+d.Stop) / 2
}

// SortByScore sorts domains ascending by score. The sort is stable.
func SortByScore(ds []*Domain) {
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Score < ds[j].Score
	})
}

// SortByEvalue sorts domains ascending by e-value. The sort is stable.
func SortByEvalue(ds []*Domain) {
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Evalue < ds[j].Evalue
	})
}

// SortByStart sorts domains ascending by start position. The sort is stable.
func SortByStart(ds []*Domain) {
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Start < ds[j].Start
	})
}

// NameSet is a set of domain model names.
type NameSet map[string]struct{}

// NewNameSet creates a set containing names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// SetContainsSomeDomains reports whether any domain's name is in names.
func SetContainsSomeDomains(names NameSet, ds []*Domain) bool {
	for _, d := range ds {
		if names.Has(d.Name) {
			return true
		}
	}
	return false
}

// RemoveSpecificDomainsOverlappingWith returns ds without the domains named
// in names whose midpoint lies within ref's span. Unlike FindOverlap it
// ignores overlap amount and tolerance. ref itself is never removed.
func RemoveSpecificDomainsOverlappingWith(ds []*Domain, ref *Domain, names NameSet) []*Domain {
	out := make([]*Domain, 0, len(ds))
	lo, hi := float64(ref.Start), float64(ref.Stop)
	for _, d := range ds {
		if d != ref && names.Has(d.Name) {
			if mid := d.Midpoint(); mid >= lo && mid <= hi {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

func clone(ds []*Domain) []*Domain {
	out := make([]*Domain, len(ds))
	copy(out, ds)
	return out
}
