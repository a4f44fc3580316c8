// Package cluster groups genes on a replicon into operon-like clusters.
package cluster

import "fmt"

// Strand is the coding strand of a gene.
type Strand int8

// Strand values.
const (
	Unknown Strand = 0
	Forward Strand = 1
	Reverse Strand = -1
)

// ParseStrand converts "+"/"-" (or "1"/"-1") to a Strand.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+", "1", "+1":
		return Forward, nil
	case "-", "-1":
		return Reverse, nil
	default:
		return Unknown, fmt.Errorf("invalid strand %q", s)
	}
}

func (s Strand) String() string {
	switch s {
	case Forward:
		return "+"
	case Reverse:
		return "-"
	default:
		return "."
	}
}

// Gene is a located gene on a replicon.
type Gene struct {
	ID         string // Gene identifier (e.g., locus tag)
	RepliconID string // Chromosome or plasmid
	Start      int64  // 1-based
	Stop       int64  // 1-based, inclusive
	Strand     Strand
}

// IsForwardStrand returns true if the gene is on the forward strand.
func (g *Gene) IsForwardStrand() bool {
	return g.Strand == Forward
}

// IsReverseStrand returns true if the gene is on the reverse strand.
func (g *Gene) IsReverseStrand() bool {
	return g.Strand == Reverse
}

// Cluster is a run of at least MinGroupSize same-strand genes.
// Genes are ordered by start, except that a cluster spanning the origin of a
// circular replicon lists the genes before the origin first.
type Cluster struct {
	Genes  []*Gene
	Strand Strand
}

// Size returns the number of genes in the cluster.
func (c *Cluster) Size() int {
	return len(c.Genes)
}

// First returns the first gene of the cluster.
func (c *Cluster) First() *Gene {
	return c.Genes[0]
}

// Last returns the last gene of the cluster.
func (c *Cluster) Last() *Gene {
	return c.Genes[len(c.Genes)-1]
}

// CrossesOrigin reports whether the cluster wraps around the origin.
func (c *Cluster) CrossesOrigin() bool {
	return c.First().Start > c.Last().Stop
}

// GeneIDs returns the IDs of the genes in cluster order.
func (c *Cluster) GeneIDs() []string {
	ids := make([]string, len(c.Genes))
	for i, g := range c.Genes {
		ids[i] = g.ID
	}
	return ids
}

// Replicon is a chromosome or plasmid and the genes located on it.
type Replicon struct {
	ID       string
	Length   int64
	Circular bool
	Genes    []*Gene
}

// Options returns the cluster finder options describing r.
func (r *Replicon) Options() Options {
	return Options{Circular: r.Circular, RepliconLength: r.Length}
}
