package region

// Container is an append-only, insertion-ordered collection of distinct
// Region instances. Regions are shared with the caller, not copied, and
// identity (pointer) rather than value decides whether one is a duplicate.
type Container struct {
	regions []*Region
	seen    map[*Region]struct{}
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{seen: make(map[*Region]struct{})}
}

// Add appends r and returns the container for chaining.
func (c *Container) Add(r *Region) (*Container, error) {
	if r == nil {
		return c, ErrNilRegion
	}
	if _, ok := c.seen[r]; ok {
		return c, &DuplicateRegionError{Region: r}
	}
	c.seen[r] = struct{}{}
	c.regions = append(c.regions, r)
	return c, nil
}

// Regions returns the stored regions in insertion order.
// The returned slice is a copy; the regions themselves are shared.
func (c *Container) Regions() []*Region {
	out := make([]*Region, len(c.regions))
	copy(out, c.regions)
	return out
}

// Len returns the number of stored regions.
func (c *Container) Len() int {
	return len(c.regions)
}

// FindOverlaps returns the overlap of every stored region with query whose
// amount exceeds tolerance, in insertion order.
func (c *Container) FindOverlaps(query *Region, tolerance int) []*Overlap {
	var result []*Overlap
	for _, r := range c.regions {
		if o := r.FindOverlap(query, tolerance); o != nil {
			result = append(result, o)
		}
	}
	return result
}
