package popgen

import (
	"github.com/inodb/vibe-call/internal/genotype"
)

// concentrationMultiplier rescales normalized prior scores into
// Dirichlet-like pseudo-counts for frequency initialization.
const concentrationMultiplier = 100

// PriorScorer scores a candidate haplotype against the reference haplotype
// over the same region. Scores are non-negative; larger means more likely a
// priori. Alignment-based scorers live outside this package.
type PriorScorer interface {
	Score(hap, ref genotype.Haplotype) float64
}

// PriorCounts maps haplotypes to non-negative pseudo-counts. It only exists
// to seed a frequency distribution and is discarded afterwards.
type PriorCounts struct {
	order  []genotype.Haplotype
	counts map[genotype.Haplotype]float64
}

// Len returns the number of haplotypes with a pseudo-count.
func (c *PriorCounts) Len() int {
	return len(c.order)
}

// Of returns the pseudo-count for h, or 0 if absent.
func (c *PriorCounts) Of(h genotype.Haplotype) float64 {
	return c.counts[h]
}

// Sum returns the total pseudo-count mass, summed in insertion order.
func (c *PriorCounts) Sum() float64 {
	var total float64
	for _, h := range c.order {
		total += c.counts[h]
	}
	return total
}

// ComputePriorCounts scores every haplotype against the reference haplotype,
// normalizes the scores to sum to 1 over the set, and rescales by a fixed
// concentration multiplier. An empty haplotype set yields an empty result.
// Panics if the scorer gives every haplotype a zero score, since the counts
// would otherwise be unnormalizable.
func ComputePriorCounts(haps []genotype.Haplotype, ref genotype.Haplotype, scorer PriorScorer) *PriorCounts {
	result := &PriorCounts{counts: make(map[genotype.Haplotype]float64, len(haps))}
	if len(haps) == 0 {
		return result
	}
	scores := make([]float64, len(haps))
	var norm float64
	for i, h := range haps {
		scores[i] = scorer.Score(h, ref)
		norm += scores[i]
	}
	if !(norm > 0) {
		panic("popgen: prior scorer assigned zero score to every haplotype")
	}
	result.order = make([]genotype.Haplotype, 0, len(haps))
	for i, h := range haps {
		if _, ok := result.counts[h]; !ok {
			result.order = append(result.order, h)
		}
		result.counts[h] = concentrationMultiplier * scores[i] / norm
	}
	return result
}

// MutationScorer is a simple mutation-distance prior: every substitution
// multiplies the score by SNVProb and every inserted or deleted base by
// IndelProb, so haplotypes close to the reference receive more prior mass.
// Distances come from position-wise comparison, not an alignment; callers
// needing alignment-aware priors should supply their own PriorScorer.
type MutationScorer struct {
	SNVProb   float64
	IndelProb float64
}

// NewMutationScorer returns a scorer with per-base event probabilities in
// the range typical for germline variation.
func NewMutationScorer() MutationScorer {
	return MutationScorer{SNVProb: 1e-3, IndelProb: 1e-4}
}

// Score implements PriorScorer.
func (s MutationScorer) Score(hap, ref genotype.Haplotype) float64 {
	a, b := hap.Sequence, ref.Sequence
	shorter := len(a)
	if len(b) < shorter {
		shorter = len(b)
	}
	substitutions := 0
	for i := 0; i < shorter; i++ {
		if a[i] != b[i] {
			substitutions++
		}
	}
	indelBases := len(a) + len(b) - 2*shorter

	score := 1.0
	for i := 0; i < substitutions; i++ {
		score *= s.SNVProb
	}
	for i := 0; i < indelBases; i++ {
		score *= s.IndelProb
	}
	return score
}
