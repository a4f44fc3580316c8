package domains

import (
	"fmt"
	"math"
	"sort"

	"github.com/inodb/mist-regions/internal/region"
)

// RemoveOverlappingDomains keeps the highest scoring domain of every set of
// overlapping predictions. Domains are visited in descending score order and
// a domain is kept only if it does not overlap (beyond tolerance) any region
// already in c; kept domains have their region added to c.
//
// The survivors are returned in ascending score order. ds is not modified.
func RemoveOverlappingDomains(c *region.Container, ds []*Domain, tolerance int) ([]*Domain, error) {
	sorted := clone(ds)
	SortByScore(sorted)

	keep := make([]bool, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		r, err := sorted[i].Region()
		if err != nil {
			return nil, err
		}
		if len(c.FindOverlaps(r, tolerance)) > 0 {
			continue
		}
		if _, err := c.Add(r); err != nil {
			return nil, fmt.Errorf("accept domain %s: %w", sorted[i].Name, err)
		}
		keep[i] = true
	}

	return compact(sorted, keep), nil
}

// RemoveInsignificantOverlaps drops predictions that overlap a prediction
// with a markedly better e-value. Domains are visited best e-value first; a
// domain is dropped if any already accepted domain it overlaps differs from
// it in e-value by more than threshold. Overlapping domains whose e-values
// are within threshold of each other are all kept.
//
// The survivors are returned in descending e-value order. ds is not modified.
func RemoveInsignificantOverlaps(ds []*Domain, tolerance int, threshold float64) ([]*Domain, error) {
	sorted := clone(ds)
	if len(sorted) < 2 {
		return sorted, nil
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Evalue > sorted[j].Evalue
	})

	c := region.NewContainer()
	keep := make([]bool, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		d := sorted[i]
		r, err := d.Region()
		if err != nil {
			return nil, err
		}
		if HasInsignificantOverlap(c.FindOverlaps(r, tolerance), d.Evalue, threshold) {
			continue
		}
		if _, err := c.Add(r); err != nil {
			return nil, fmt.Errorf("accept domain %s: %w", d.Name, err)
		}
		keep[i] = true
	}

	return compact(sorted, keep), nil
}

// HasInsignificantOverlap reports whether the e-value of any overlapped
// domain differs from evalue by strictly more than threshold. Each overlap's
// region must carry its *Domain as data.
func HasInsignificantOverlap(overlaps []*region.Overlap, evalue, threshold float64) bool {
	for _, o := range overlaps {
		d, ok := o.Region.Data.(*Domain)
		if !ok {
			continue
		}
		if math.Abs(d.Evalue-evalue) > threshold {
			return true
		}
	}
	return false
}

func compact(ds []*Domain, keep []bool) []*Domain {
	out := make([]*Domain, 0, len(ds))
	for i, d := range ds {
		if keep[i] {
			out = append(out, d)
		}
	}
	return out
}
