package popgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-call/internal/genotype"
)

var testRegion = genotype.Region{Contig: "6", Start: 93705800, End: 93706100}

func hap(seq string) genotype.Haplotype {
	return genotype.NewHaplotype(testRegion, seq)
}

func TestUniformFrequencies(t *testing.T) {
	haps := []genotype.Haplotype{hap("A"), hap("C"), hap("G"), hap("T")}
	f := UniformFrequencies(haps)

	require.Equal(t, 4, f.Len())
	for _, h := range haps {
		assert.InDelta(t, 0.25, f.Of(h), 1e-15)
	}
	assert.InDelta(t, 1.0, f.Sum(), 1e-9)
}

func TestUniformFrequencies_EmptyPanics(t *testing.T) {
	assert.Panics(t, func() { UniformFrequencies(nil) })
}

func TestFrequencies_UnknownHaplotypePanics(t *testing.T) {
	f := UniformFrequencies([]genotype.Haplotype{hap("A")})
	assert.Panics(t, func() { f.Of(hap("C")) })
}

func TestFrequencies_InsertionOrderPreserved(t *testing.T) {
	haps := []genotype.Haplotype{hap("T"), hap("A"), hap("G")}
	f := UniformFrequencies(haps)
	assert.Equal(t, haps, f.Haplotypes())
}

func TestFrequenciesFromCounts(t *testing.T) {
	a, b := hap("ACGT"), hap("ACTT")
	scorer := fixedScorer{a: 3, b: 1}
	counts := ComputePriorCounts([]genotype.Haplotype{a, b}, a, scorer)

	f := FrequenciesFromCounts(counts)
	assert.InDelta(t, 0.75, f.Of(a), 1e-12)
	assert.InDelta(t, 0.25, f.Of(b), 1e-12)
	assert.InDelta(t, 1.0, f.Sum(), 1e-9)
}

func TestEstimateFrequencies(t *testing.T) {
	haps := []genotype.Haplotype{hap("A"), hap("C"), hap("G")}
	counts := NewExpectedCounts(haps)
	counts.Add(haps[0], 6)
	counts.Add(haps[1], 3)
	counts.Add(haps[2], 1)

	f := EstimateFrequencies(counts)
	assert.InDelta(t, 0.6, f.Of(haps[0]), 1e-12)
	assert.InDelta(t, 0.3, f.Of(haps[1]), 1e-12)
	assert.InDelta(t, 0.1, f.Of(haps[2]), 1e-12)
	assert.InDelta(t, 1.0, f.Sum(), 1e-9)
}

func TestEstimateFrequencies_ZeroMassPanics(t *testing.T) {
	counts := NewExpectedCounts([]genotype.Haplotype{hap("A")})
	assert.Panics(t, func() { EstimateFrequencies(counts) })
}

func TestExpectedCounts_UnknownHaplotypePanics(t *testing.T) {
	counts := NewExpectedCounts([]genotype.Haplotype{hap("A")})
	assert.Panics(t, func() { counts.Add(hap("C"), 1) })
}

func TestMaxDifference(t *testing.T) {
	haps := []genotype.Haplotype{hap("A"), hap("C")}
	f1 := UniformFrequencies(haps)

	counts := NewExpectedCounts(haps)
	counts.Add(haps[0], 0.9)
	counts.Add(haps[1], 0.1)
	f2 := EstimateFrequencies(counts)

	assert.InDelta(t, 0.4, MaxDifference(f1, f2), 1e-12)
	assert.InDelta(t, 0.4, MaxDifference(f2, f1), 1e-12)
	assert.Zero(t, MaxDifference(f1, f1))
}

// fixedScorer returns preset scores keyed by haplotype.
type fixedScorer map[genotype.Haplotype]float64

func (s fixedScorer) Score(h, ref genotype.Haplotype) float64 {
	return s[h]
}
