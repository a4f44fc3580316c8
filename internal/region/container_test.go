package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainer_Add(t *testing.T) {
	c := NewContainer()
	a := mustNew(t, 1, 10)
	b := mustNew(t, 1, 10)

	got, err := c.Add(a)
	require.NoError(t, err)
	assert.Same(t, c, got, "Add is chainable")

	_, err = c.Add(b)
	require.NoError(t, err, "distinct regions with identical coordinates are allowed")
	assert.Equal(t, 2, c.Len())

	_, err = c.Add(a)
	var dupErr *DuplicateRegionError
	require.ErrorAs(t, err, &dupErr)
	assert.Same(t, a, dupErr.Region)
	assert.Equal(t, 2, c.Len())
}

func TestContainer_AddNil(t *testing.T) {
	_, err := NewContainer().Add(nil)
	assert.ErrorIs(t, err, ErrNilRegion)
}

func TestContainer_RegionsIsCopy(t *testing.T) {
	c := NewContainer()
	a := mustNew(t, 1, 10)
	_, err := c.Add(a)
	require.NoError(t, err)

	regions := c.Regions()
	require.Len(t, regions, 1)
	regions[0] = nil
	assert.Same(t, a, c.Regions()[0])
}

func TestContainer_FindOverlaps(t *testing.T) {
	c := NewContainer()
	late := mustNew(t, 40, 60)
	early := mustNew(t, 1, 20)
	far := mustNew(t, 100, 120)
	small := mustNew(t, 18, 22)
	for _, r := range []*Region{late, early, far, small} {
		_, err := c.Add(r)
		require.NoError(t, err)
	}

	query := mustNew(t, 15, 45)
	overlaps := c.FindOverlaps(query, 0)
	require.Len(t, overlaps, 3)
	// insertion order, not sorted by amount or position
	assert.Same(t, late, overlaps[0].Region)
	assert.Same(t, early, overlaps[1].Region)
	assert.Same(t, small, overlaps[2].Region)
	assert.Equal(t, 6, overlaps[0].Amount)
	assert.Equal(t, 6, overlaps[1].Amount)
	assert.Equal(t, 5, overlaps[2].Amount)

	overlaps = c.FindOverlaps(query, 5)
	require.Len(t, overlaps, 2, "tolerance filters the 5-residue overlap")
	assert.Same(t, late, overlaps[0].Region)
	assert.Same(t, early, overlaps[1].Region)
}

func TestContainer_FindOverlapsEmpty(t *testing.T) {
	c := NewContainer()
	assert.Empty(t, c.FindOverlaps(mustNew(t, 1, 10), 0))
	assert.Empty(t, c.FindOverlaps(nil, 0))
}

func TestContainer_SeesMutation(t *testing.T) {
	c := NewContainer()
	r := mustNew(t, 1, 10)
	_, err := c.Add(r)
	require.NoError(t, err)

	query := mustNew(t, 50, 60)
	assert.Empty(t, c.FindOverlaps(query, 0))

	require.NoError(t, r.SetStop(55))
	assert.Len(t, c.FindOverlaps(query, 0), 1, "container shares the caller's region")
}
