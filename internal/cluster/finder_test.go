package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gene(id string, start, stop int64, strand Strand) *Gene {
	return &Gene{ID: id, Start: start, Stop: stop, Strand: strand}
}

func clusterIDs(clusters []*Cluster) [][]string {
	out := make([][]string, len(clusters))
	for i, c := range clusters {
		out[i] = c.GeneIDs()
	}
	return out
}

func TestFindClusters_Empty(t *testing.T) {
	f := NewFinder(DefaultDistanceCutoff)

	got, err := f.FindClusters(nil, Options{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = f.FindClusters([]*Gene{}, Options{Circular: true, RepliconLength: 1000})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindClusters_EndToEnd(t *testing.T) {
	genes := []*Gene{
		gene("g1", 96849, 99074, Forward),
		gene("g2", 99161, 99631, Forward),
		gene("g3", 99711, 100802, Forward),
		gene("g4", 102388, 103758, Forward),
		gene("g5", 103818, 103818, Forward),
		gene("g6", 104980, 105405, Reverse),
		gene("g7", 105412, 106032, Reverse),
	}

	got, err := NewFinder(200).FindClusters(genes, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"g1", "g2", "g3"},
		{"g4", "g5"},
		{"g6", "g7"},
	}, clusterIDs(got))

	assert.Equal(t, Forward, got[0].Strand)
	assert.Equal(t, 3, got[0].Size())
	assert.Equal(t, Reverse, got[2].Strand)
	assert.Equal(t, 2, got[2].Size())
	for _, c := range got {
		assert.False(t, c.CrossesOrigin())
	}
}

func TestFindClusters_SingletonDropped(t *testing.T) {
	genes := []*Gene{
		gene("a", 100, 400, Forward),
		gene("lonely", 5000, 5600, Forward),
		gene("b", 450, 900, Forward),
	}

	got, err := NewFinder(200).FindClusters(genes, Options{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"a", "b"}, got[0].GeneIDs())

	got, err = NewFinder(200).FindClusters([]*Gene{gene("only", 1, 100, Forward)}, Options{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindClusters_StrandSeparation(t *testing.T) {
	genes := []*Gene{
		gene("fwd", 100, 400, Forward),
		gene("rev", 380, 700, Reverse),
	}

	got, err := NewFinder(200).FindClusters(genes, Options{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindClusters_StrandSwitchSplits(t *testing.T) {
	genes := []*Gene{
		gene("a", 100, 200, Forward),
		gene("b", 250, 300, Forward),
		gene("x", 320, 400, Reverse),
		gene("c", 420, 500, Forward),
		gene("d", 520, 600, Forward),
	}

	got, err := NewFinder(200).FindClusters(genes, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, clusterIDs(got))
}

func TestFindClusters_CutoffBoundary(t *testing.T) {
	genes := []*Gene{
		gene("a", 1, 100, Forward),
		gene("b", 300, 400, Forward), // gap 200
		gene("c", 601, 700, Forward), // gap 201
	}

	got, err := NewFinder(200).FindClusters(genes, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}}, clusterIDs(got))
}

func TestFindClusters_OverlappingGenes(t *testing.T) {
	genes := []*Gene{
		gene("a", 1, 500, Reverse),
		gene("b", 480, 900, Reverse),
	}

	got, err := NewFinder(0).FindClusters(genes, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}}, clusterIDs(got), "negative gap is within any cutoff")
}

func TestFindClusters_DoesNotMutateInput(t *testing.T) {
	genes := []*Gene{
		gene("c", 900, 1000, Forward),
		gene("a", 100, 200, Forward),
		gene("b", 300, 400, Forward),
	}
	original := append([]*Gene(nil), genes...)

	f := NewFinder(200)
	first, err := f.FindClusters(genes, Options{})
	require.NoError(t, err)
	second, err := f.FindClusters(genes, Options{})
	require.NoError(t, err)

	assert.Equal(t, original, genes)
	assert.Equal(t, clusterIDs(first), clusterIDs(second))
	assert.Equal(t, [][]string{{"a", "b"}}, clusterIDs(first))
}

func TestFindClusters_CircularWraparound(t *testing.T) {
	genes := []*Gene{
		gene("head", 50, 300, Forward),
		gene("middle", 5000, 5500, Forward),
		gene("tail", 9800, 9950, Forward),
	}

	got, err := NewFinder(200).FindClusters(genes, Options{Circular: true, RepliconLength: 10000})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"tail", "head"}, got[0].GeneIDs())
	assert.True(t, got[0].CrossesOrigin())
	assert.Equal(t, Forward, got[0].Strand)

	// The same genes on a linear replicon never join across the ends.
	got, err = NewFinder(200).FindClusters(genes, Options{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindClusters_CircularGapTooLarge(t *testing.T) {
	genes := []*Gene{
		gene("head", 250, 300, Forward),
		gene("tail", 9800, 9950, Forward),
	}

	// gap across origin = 250 + 10000 - 9950 = 300
	got, err := NewFinder(200).FindClusters(genes, Options{Circular: true, RepliconLength: 10000})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = NewFinder(300).FindClusters(genes, Options{Circular: true, RepliconLength: 10000})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"tail", "head"}}, clusterIDs(got))
}

func TestFindClusters_CircularStrandMismatchAtOrigin(t *testing.T) {
	genes := []*Gene{
		gene("h1", 10, 100, Reverse),
		gene("h2", 150, 300, Reverse),
		gene("t1", 9500, 9700, Forward),
		gene("t2", 9750, 9990, Forward),
	}

	got, err := NewFinder(200).FindClusters(genes, Options{Circular: true, RepliconLength: 10000})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"h1", "h2"}, {"t1", "t2"}}, clusterIDs(got))
	for _, c := range got {
		assert.False(t, c.CrossesOrigin())
	}
}

func TestFindClusters_CircularMultipleGroupsNearOrigin(t *testing.T) {
	genes := []*Gene{
		gene("h1", 20, 200, Forward),
		gene("h2", 250, 400, Forward),
		gene("h3", 900, 1000, Reverse),
		gene("h4", 1100, 1200, Reverse),
		gene("m1", 4000, 4100, Forward),
		gene("t1", 9000, 9300, Forward),
		gene("t2", 9400, 9600, Forward),
		gene("t3", 9700, 9950, Forward),
	}

	got, err := NewFinder(200).FindClusters(genes, Options{Circular: true, RepliconLength: 10000})
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"h3", "h4"},
		{"t1", "t2", "t3", "h1", "h2"},
	}, clusterIDs(got))
	assert.True(t, got[1].CrossesOrigin())
}

func TestFindClusters_CircularWholeRepliconChained(t *testing.T) {
	genes := []*Gene{
		gene("a", 1, 300, Forward),
		gene("b", 400, 700, Forward),
		gene("c", 800, 990, Forward),
	}

	got, err := NewFinder(200).FindClusters(genes, Options{Circular: true, RepliconLength: 1000})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"a", "b", "c"}, got[0].GeneIDs(), "each gene appears once")
}

func TestFindClusters_CircularSingleGene(t *testing.T) {
	got, err := NewFinder(200).FindClusters([]*Gene{gene("a", 1, 300, Forward)}, Options{Circular: true, RepliconLength: 1000})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindClusters_CircularRequiresLength(t *testing.T) {
	_, err := NewFinder(200).FindClusters([]*Gene{gene("a", 1, 10, Forward)}, Options{Circular: true})
	var argErr *InvalidArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "replicon length", argErr.Argument)
}

func TestFindClusters_InvalidArguments(t *testing.T) {
	var argErr *InvalidArgumentError

	_, err := NewFinder(-1).FindClusters(nil, Options{})
	assert.ErrorAs(t, err, &argErr)

	_, err = NewFinder(200).FindClusters([]*Gene{gene("a", 1, 10, Forward), nil}, Options{})
	assert.ErrorAs(t, err, &argErr)
}

func TestFindClusters_SortedByFirstGene(t *testing.T) {
	genes := []*Gene{
		gene("e", 5000, 5100, Reverse),
		gene("f", 5200, 5300, Reverse),
		gene("a", 100, 200, Forward),
		gene("b", 250, 300, Forward),
	}

	got, err := NewFinder(200).FindClusters(genes, Options{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"e", "f"}}, clusterIDs(got))
}

func TestFindRepliconClusters(t *testing.T) {
	r := &Replicon{
		ID:       "pXO1",
		Length:   10000,
		Circular: true,
		Genes: []*Gene{
			gene("tail", 9800, 9950, Forward),
			gene("head", 50, 300, Forward),
		},
	}

	got, err := NewFinder(200).FindRepliconClusters(r)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"tail", "head"}}, clusterIDs(got))

	r.Length = 0
	_, err = NewFinder(200).FindRepliconClusters(r)
	var argErr *InvalidArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Contains(t, err.Error(), "pXO1")
}
