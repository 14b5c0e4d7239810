package popgen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/vibe-call/internal/genotype"
)

func TestLogHardyWeinberg_Haploid(t *testing.T) {
	a, c := hap("A"), hap("C")
	f := UniformFrequencies([]genotype.Haplotype{a, c})

	assert.InDelta(t, math.Log(0.5), LogHardyWeinberg(genotype.New(a), f), 1e-12)
}

func TestLogHardyWeinberg_Diploid(t *testing.T) {
	a, c := hap("A"), hap("C")
	counts := NewExpectedCounts([]genotype.Haplotype{a, c})
	counts.Add(a, 0.7)
	counts.Add(c, 0.3)
	f := EstimateFrequencies(counts)

	hom := LogHardyWeinberg(genotype.New(a, a), f)
	assert.InDelta(t, 2*math.Log(0.7), hom, 1e-12)

	het := LogHardyWeinberg(genotype.New(a, c), f)
	assert.InDelta(t, math.Log(2*0.7*0.3), het, 1e-12)
}

func TestLogHardyWeinberg_DiploidHetIncludesLn2(t *testing.T) {
	a, c := hap("A"), hap("C")
	f := UniformFrequencies([]genotype.Haplotype{a, c})

	het := LogHardyWeinberg(genotype.New(a, c), f)
	hom := LogHardyWeinberg(genotype.New(a, a), f)
	assert.InDelta(t, math.Log(2), het-hom, 1e-12)
}

func TestLogHardyWeinberg_Triploid(t *testing.T) {
	a, c := hap("A"), hap("C")
	f := UniformFrequencies([]genotype.Haplotype{a, c, hap("G")})

	// P({a,a,c}) = C(3; 2,1) f_a^2 f_c = 3 * (1/3)^3
	got := LogHardyWeinberg(genotype.New(a, a, c), f)
	assert.InDelta(t, math.Log(3)-3*math.Log(3), got, 1e-12)

	// All distinct: multinomial coefficient 3! = 6.
	got = LogHardyWeinberg(genotype.New(a, c, hap("G")), f)
	assert.InDelta(t, math.Log(6)-3*math.Log(3), got, 1e-12)
}

func TestLogHardyWeinberg_HomozygousAnyPloidy(t *testing.T) {
	a := hap("A")
	haps := []genotype.Haplotype{a, hap("C"), hap("G"), hap("T")}
	f := UniformFrequencies(haps)

	for ploidy := 1; ploidy <= 6; ploidy++ {
		copies := make([]genotype.Haplotype, ploidy)
		for i := range copies {
			copies[i] = a
		}
		got := LogHardyWeinberg(genotype.New(copies...), f)
		assert.InDelta(t, float64(ploidy)*math.Log(0.25), got, 1e-12, "ploidy %d", ploidy)
	}
}

func TestLogHardyWeinberg_ZeroFrequencyIsNegInf(t *testing.T) {
	a, c := hap("A"), hap("C")
	counts := NewExpectedCounts([]genotype.Haplotype{a, c})
	counts.Add(a, 1)
	f := EstimateFrequencies(counts)

	assert.True(t, math.IsInf(LogHardyWeinberg(genotype.New(a, c), f), -1))
	assert.Zero(t, LogHardyWeinberg(genotype.New(a, a), f))
}

func TestLogHardyWeinberg_MissingHaplotypePanics(t *testing.T) {
	f := UniformFrequencies([]genotype.Haplotype{hap("A")})
	assert.Panics(t, func() { LogHardyWeinberg(genotype.New(hap("C"), hap("C")), f) })
}
