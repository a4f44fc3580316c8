package cluster

import (
	"fmt"
	"sort"
)

const (
	// DefaultDistanceCutoff is the largest gap in bp allowed between
	// consecutive genes of one cluster.
	DefaultDistanceCutoff int64 = 200
	// MinGroupSize is the smallest number of genes reported as a cluster.
	MinGroupSize = 2
)

// Options describes the replicon the genes belong to.
type Options struct {
	Circular       bool
	RepliconLength int64 // required when Circular is set
}

// InvalidArgumentError reports an unusable argument to FindClusters.
type InvalidArgumentError struct {
	Argument string
	Message  string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Argument, e.Message)
}

// Finder partitions the genes of a replicon into clusters of neighboring,
// same-strand genes.
type Finder struct {
	cutoff int64
}

// NewFinder creates a finder that joins genes separated by at most cutoffBp.
func NewFinder(cutoffBp int64) *Finder {
	return &Finder{cutoff: cutoffBp}
}

// DistanceCutoff returns the maximum gap between clustered genes.
func (f *Finder) DistanceCutoff() int64 {
	return f.cutoff
}

// FindClusters groups genes into clusters. The input slice is not reordered.
//
// Genes are sorted by start and scanned forward; a gene extends the current
// group if it is on the same strand and starts at most the cutoff after the
// group's last gene stops. On a circular replicon the genes at the end of the
// sequence are first collected walking backward, and the forward scan then
// continues from them across the origin, measuring that gap modulo the
// replicon length. Groups smaller than MinGroupSize are discarded. Clusters
// are returned ordered by the start of their first gene.
func (f *Finder) FindClusters(genes []*Gene, opts Options) ([]*Cluster, error) {
	if f.cutoff < 0 {
		return nil, &InvalidArgumentError{Argument: "distance cutoff", Message: fmt.Sprintf("%d is negative", f.cutoff)}
	}
	if opts.Circular && opts.RepliconLength <= 0 {
		return nil, &InvalidArgumentError{Argument: "replicon length", Message: "required for a circular replicon"}
	}
	for i, g := range genes {
		if g == nil {
			return nil, &InvalidArgumentError{Argument: "genes", Message: fmt.Sprintf("gene %d is nil", i)}
		}
	}

	clusters := []*Cluster{}
	if len(genes) == 0 {
		return clusters, nil
	}

	sorted := make([]*Gene, len(genes))
	copy(sorted, genes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var group []*Gene
	remaining := sorted
	if opts.Circular {
		group, remaining = f.collectTail(sorted)
	}

	for _, g := range remaining {
		if len(group) > 0 && f.extendsForward(group, g, opts) {
			group = append(group, g)
			continue
		}
		clusters = appendGroup(clusters, group)
		group = []*Gene{g}
	}
	clusters = appendGroup(clusters, group)

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].First().Start < clusters[j].First().Start
	})
	return clusters, nil
}

// collectTail walks backward from the last gene, absorbing preceding genes
// while they stay within the cutoff of the earliest absorbed gene. It returns
// the absorbed genes in start order and the genes before them.
func (f *Finder) collectTail(sorted []*Gene) (tail, rest []*Gene) {
	n := len(sorted)
	i := n - 1
	for i > 0 && f.extendsBackward(sorted[i], sorted[i-1]) {
		i--
	}
	tail = make([]*Gene, n-i)
	copy(tail, sorted[i:])
	return tail, sorted[:i]
}

func (f *Finder) extendsBackward(earliest, g *Gene) bool {
	if g.Strand != earliest.Strand {
		return false
	}
	return earliest.Start-g.Stop <= f.cutoff
}

func (f *Finder) extendsForward(group []*Gene, g *Gene, opts Options) bool {
	last := group[len(group)-1]
	if g.Strand != last.Strand {
		return false
	}
	gap := g.Start - last.Stop
	if opts.Circular && g.Start < last.Start {
		// g lies past the origin relative to the group.
		gap = g.Start + opts.RepliconLength - last.Stop
	}
	return gap <= f.cutoff
}

func appendGroup(clusters []*Cluster, group []*Gene) []*Cluster {
	if len(group) < MinGroupSize {
		return clusters
	}
	return append(clusters, &Cluster{Genes: group, Strand: group[0].Strand})
}

// FindRepliconClusters finds the clusters among the genes of r.
func (f *Finder) FindRepliconClusters(r *Replicon) ([]*Cluster, error) {
	clusters, err := f.FindClusters(r.Genes, r.Options())
	if err != nil {
		return nil, fmt.Errorf("replicon %s: %w", r.ID, err)
	}
	return clusters, nil
}
