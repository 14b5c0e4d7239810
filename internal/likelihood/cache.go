// Package likelihood provides the per-read haplotype likelihood cache and
// the germline genotype likelihood model.
package likelihood

import (
	"fmt"

	"github.com/inodb/vibe-call/internal/genotype"
)

// Cache holds, for one sample, the per-read log-likelihood vector of every
// candidate haplotype. Vectors are aligned by read index: entry i of every
// vector refers to the same read. The cache must be primed before any model
// evaluates against it; evaluating an unprimed cache is a programming error
// and panics.
type Cache struct {
	values map[genotype.Haplotype][]float64
	reads  int
	primed bool
}

// NewCache creates an unprimed cache.
func NewCache() *Cache {
	return &Cache{values: make(map[genotype.Haplotype][]float64)}
}

// Prime populates the cache with per-read log-likelihood vectors, one per
// haplotype. All vectors must have the same length. Prime replaces any
// previous contents.
func (c *Cache) Prime(matrix map[genotype.Haplotype][]float64) error {
	if len(matrix) == 0 {
		return fmt.Errorf("prime likelihood cache: empty matrix")
	}
	reads := -1
	for h, v := range matrix {
		if reads < 0 {
			reads = len(v)
		} else if len(v) != reads {
			return fmt.Errorf("prime likelihood cache: haplotype %s has %d read likelihoods, want %d",
				h, len(v), reads)
		}
	}
	c.values = make(map[genotype.Haplotype][]float64, len(matrix))
	for h, v := range matrix {
		vc := make([]float64, len(v))
		copy(vc, v)
		c.values[h] = vc
	}
	c.reads = reads
	c.primed = true
	return nil
}

// IsPrimed reports whether the cache has been populated.
func (c *Cache) IsPrimed() bool {
	return c.primed
}

// NumReads returns the common length of the likelihood vectors.
func (c *Cache) NumReads() int {
	return c.reads
}

// At returns the per-read log-likelihood vector for h. The caller must not
// mutate the returned slice. Panics if the cache is unprimed or does not
// hold the haplotype; both are caller contract violations.
func (c *Cache) At(h genotype.Haplotype) []float64 {
	if !c.primed {
		panic("likelihood: cache is not primed")
	}
	v, ok := c.values[h]
	if !ok {
		panic(fmt.Sprintf("likelihood: haplotype %s is not in the cache", h))
	}
	return v
}

// Haplotypes reports how many haplotypes the cache holds.
func (c *Cache) Haplotypes() int {
	return len(c.values)
}
