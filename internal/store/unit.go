// Package store loads and persists per-read haplotype log-likelihood
// matrices produced by an upstream read-to-haplotype alignment engine.
// Matrices are grouped into work units, one per (region, sample) pair, and
// are used to prime likelihood caches.
package store

import (
	"fmt"

	"github.com/inodb/vibe-call/internal/genotype"
	"github.com/inodb/vibe-call/internal/likelihood"
)

// Unit is one (region, sample) log-likelihood matrix. Haplotypes records the
// first-seen order so downstream enumeration is deterministic.
type Unit struct {
	Region     genotype.Region
	Sample     string
	Haplotypes []genotype.Haplotype
	Matrix     map[genotype.Haplotype][]float64
}

// NewUnit creates an empty unit for a region and sample.
func NewUnit(region genotype.Region, sample string) *Unit {
	return &Unit{
		Region: region,
		Sample: sample,
		Matrix: make(map[genotype.Haplotype][]float64),
	}
}

// Add records the per-read log-likelihood vector for a haplotype.
func (u *Unit) Add(h genotype.Haplotype, values []float64) error {
	if _, ok := u.Matrix[h]; ok {
		return fmt.Errorf("unit %s/%s: duplicate haplotype %s", u.Region, u.Sample, h)
	}
	u.Haplotypes = append(u.Haplotypes, h)
	u.Matrix[h] = values
	return nil
}

// Prime builds a primed likelihood cache from the unit's matrix.
func (u *Unit) Prime() (*likelihood.Cache, error) {
	c := likelihood.NewCache()
	if err := c.Prime(u.Matrix); err != nil {
		return nil, fmt.Errorf("unit %s/%s: %w", u.Region, u.Sample, err)
	}
	return c, nil
}
