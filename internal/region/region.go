// Package region provides 1-based closed intervals and overlap queries over them.
package region

import "fmt"

// OverlapType classifies how a subject region intersects a query region.
type OverlapType int

// Overlap topologies. The subject is the region FindOverlap is called on.
const (
	SubjectInQuery       OverlapType = 1 // query.start <= subject.start && subject.stop <= query.stop
	QueryInSubject       OverlapType = 2 // subject.start <= query.start && query.stop <= subject.stop
	SubjectTailQueryHead OverlapType = 3 // subject.start < query.start <= subject.stop < query.stop
	SubjectHeadQueryTail OverlapType = 4 // query.start < subject.start <= query.stop < subject.stop
)

func (t OverlapType) String() string {
	switch t {
	case SubjectInQuery:
		return "subject-in-query"
	case QueryInSubject:
		return "query-in-subject"
	case SubjectTailQueryHead:
		return "subject-tail-query-head"
	case SubjectHeadQueryTail:
		return "subject-head-query-tail"
	default:
		return fmt.Sprintf("OverlapType(%d)", int(t))
	}
}

// Region is a closed interval [Start, Stop] with 1 <= Start <= Stop.
type Region struct {
	start int
	stop  int

	// Data is caller-owned payload; the region only holds a reference.
	Data any
}

// Overlap describes the intersection of a subject region with a query region.
type Overlap struct {
	Region            *Region // the subject
	Amount            int     // number of shared positions
	QueryDifference   int     // query positions outside the overlap
	SubjectDifference int     // subject positions outside the overlap
	QueryPercent      float64 // Amount / query length
	SubjectPercent    float64 // Amount / subject length
	Type              OverlapType
}

// New creates a region spanning [start, stop].
func New(start, stop int, data any) (*Region, error) {
	if start < 1 || start > stop {
		return nil, &InvalidRangeError{Start: start, Stop: stop}
	}
	return &Region{start: start, stop: stop, Data: data}, nil
}

// Start returns the first position of the region.
func (r *Region) Start() int {
	return r.start
}

// Stop returns the last position of the region.
func (r *Region) Stop() int {
	return r.stop
}

// SetStart moves the start position. The region is left unchanged on error.
func (r *Region) SetStart(v int) error {
	if v < 1 || v > r.stop {
		return &InvalidRangeError{Start: v, Stop: r.stop}
	}
	r.start = v
	return nil
}

// SetStop moves the stop position. The region is left unchanged on error.
func (r *Region) SetStop(v int) error {
	if v < r.start {
		return &InvalidRangeError{Start: r.start, Stop: v}
	}
	r.stop = v
	return nil
}

// Length returns the number of positions covered by the region.
func (r *Region) Length() int {
	return r.stop - r.start + 1
}

// FindOverlap computes the overlap between r (the subject) and query.
// Returns nil if query is nil, the regions are disjoint, or the overlap
// amount does not exceed tolerance. Regions touching at a single position
// overlap by 1.
func (r *Region) FindOverlap(query *Region, tolerance int) *Overlap {
	if query == nil {
		return nil
	}

	var (
		typ    OverlapType
		amount int
	)

	switch {
	case query.start <= r.start && r.stop <= query.stop:
		typ = SubjectInQuery
		amount = r.Length()
	case r.start <= query.start && query.stop <= r.stop:
		typ = QueryInSubject
		amount = query.Length()
	case r.start < query.start && query.start <= r.stop:
		// r.stop < query.stop, otherwise the query would be nested.
		typ = SubjectTailQueryHead
		amount = r.stop - query.start + 1
	case query.start < r.start && r.start <= query.stop:
		typ = SubjectHeadQueryTail
		amount = query.stop - r.start + 1
	default:
		return nil
	}

	if amount <= tolerance {
		return nil
	}

	queryLen := query.Length()
	subjectLen := r.Length()
	return &Overlap{
		Region:            r,
		Amount:            amount,
		QueryDifference:   queryLen - amount,
		SubjectDifference: subjectLen - amount,
		QueryPercent:      float64(amount) / float64(queryLen),
		SubjectPercent:    float64(amount) / float64(subjectLen),
		Type:              typ,
	}
}

func (r *Region) String() string {
	return fmt.Sprintf("[%d, %d]", r.start, r.stop)
}
