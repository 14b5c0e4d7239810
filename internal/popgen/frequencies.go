// Package popgen provides the population-level haplotype frequency model:
// frequency distributions, the Hardy-Weinberg genotype prior, and the
// normalization step of EM frequency re-estimation.
package popgen

import (
	"fmt"

	"github.com/inodb/vibe-call/internal/genotype"
)

// Frequencies is a probability distribution over a haplotype set. Values sum
// to 1 over the set the distribution was built from. Iteration order is the
// insertion order, so repeated runs over the same inputs sum in the same
// order and produce bit-identical results.
//
// A Frequencies value belongs to a single calling run and a single EM loop;
// it is not safe for concurrent mutation.
type Frequencies struct {
	order []genotype.Haplotype
	probs map[genotype.Haplotype]float64
}

// UniformFrequencies assigns 1/k to each of the k input haplotypes.
// Panics on an empty haplotype set; that is a caller error.
func UniformFrequencies(haps []genotype.Haplotype) *Frequencies {
	if len(haps) == 0 {
		panic("popgen: uniform frequencies over empty haplotype set")
	}
	f := newFrequencies(len(haps))
	uniform := 1.0 / float64(len(haps))
	for _, h := range haps {
		f.set(h, uniform)
	}
	return f
}

// FrequenciesFromCounts normalizes pseudo-counts into a distribution.
// Panics unless the counts sum to a positive value.
func FrequenciesFromCounts(counts *PriorCounts) *Frequencies {
	total := counts.Sum()
	if !(total > 0) {
		panic("popgen: prior counts must sum to a positive value")
	}
	f := newFrequencies(counts.Len())
	for _, h := range counts.order {
		f.set(h, counts.counts[h]/total)
	}
	return f
}

func newFrequencies(capacity int) *Frequencies {
	return &Frequencies{
		order: make([]genotype.Haplotype, 0, capacity),
		probs: make(map[genotype.Haplotype]float64, capacity),
	}
}

func (f *Frequencies) set(h genotype.Haplotype, p float64) {
	if _, ok := f.probs[h]; !ok {
		f.order = append(f.order, h)
	}
	f.probs[h] = p
}

// Of returns the frequency of h. Panics if h is outside the distribution's
// domain; genotypes evaluated against a distribution must draw from the
// haplotype set it was built over.
func (f *Frequencies) Of(h genotype.Haplotype) float64 {
	p, ok := f.probs[h]
	if !ok {
		panic(fmt.Sprintf("popgen: haplotype %s is not in the frequency distribution", h))
	}
	return p
}

// Len returns the number of haplotypes in the distribution.
func (f *Frequencies) Len() int {
	return len(f.order)
}

// Haplotypes returns the distribution's domain in insertion order. The
// caller must not mutate the returned slice.
func (f *Frequencies) Haplotypes() []genotype.Haplotype {
	return f.order
}

// Sum returns the total probability mass, summed in insertion order.
func (f *Frequencies) Sum() float64 {
	var total float64
	for _, h := range f.order {
		total += f.probs[h]
	}
	return total
}

// ExpectedCounts accumulates expected haplotype counts for the EM M-step.
// The zero value is not usable; create one with NewExpectedCounts over the
// same haplotype set as the frequency distribution being re-estimated.
type ExpectedCounts struct {
	order  []genotype.Haplotype
	counts map[genotype.Haplotype]float64
}

// NewExpectedCounts creates a zeroed accumulator over the given haplotypes.
func NewExpectedCounts(haps []genotype.Haplotype) *ExpectedCounts {
	c := &ExpectedCounts{
		order:  make([]genotype.Haplotype, len(haps)),
		counts: make(map[genotype.Haplotype]float64, len(haps)),
	}
	copy(c.order, haps)
	for _, h := range haps {
		c.counts[h] = 0
	}
	return c
}

// Add accumulates weight for h. Panics if h is outside the accumulator's
// haplotype set.
func (c *ExpectedCounts) Add(h genotype.Haplotype, weight float64) {
	if _, ok := c.counts[h]; !ok {
		panic(fmt.Sprintf("popgen: haplotype %s is not in the expected count set", h))
	}
	c.counts[h] += weight
}

// EstimateFrequencies is the EM M-step: it normalizes expected haplotype
// counts into an updated frequency distribution. Panics unless the counts
// sum to a positive value.
func EstimateFrequencies(counts *ExpectedCounts) *Frequencies {
	var total float64
	for _, h := range counts.order {
		total += counts.counts[h]
	}
	if !(total > 0) {
		panic("popgen: expected counts must sum to a positive value")
	}
	f := newFrequencies(len(counts.order))
	for _, h := range counts.order {
		f.set(h, counts.counts[h]/total)
	}
	return f
}

// MaxDifference returns the largest absolute per-haplotype difference
// between two distributions over the same domain. Used as the EM
// convergence measure.
func MaxDifference(a, b *Frequencies) float64 {
	var maxDiff float64
	for _, h := range a.order {
		diff := a.probs[h] - b.Of(h)
		if diff < 0 {
			diff = -diff
		}
		if diff > maxDiff {
			maxDiff = diff
		}
	}
	return maxDiff
}
