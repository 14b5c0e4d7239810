package popgen

import (
	"math"

	"github.com/inodb/vibe-call/internal/genotype"
	"github.com/inodb/vibe-call/internal/logprob"
)

// LogHardyWeinberg returns the log prior probability of a genotype under
// random mating given population haplotype frequencies. A frequency of
// exactly 0 yields -Inf, which correctly drives the genotype's posterior to
// zero. The haploid, diploid and general cases are dispatched by ploidy;
// the closed forms exist because this runs once per candidate genotype per
// EM iteration.
func LogHardyWeinberg(g genotype.Genotype, freqs *Frequencies) float64 {
	switch g.Ploidy() {
	case 0:
		return 0
	case 1:
		return math.Log(freqs.Of(g.At(0)))
	case 2:
		return logHardyWeinbergDiploid(g, freqs)
	default:
		return logHardyWeinbergPolyploid(g, freqs)
	}
}

func logHardyWeinbergDiploid(g genotype.Genotype, freqs *Frequencies) float64 {
	if g.IsHomozygous() {
		return 2 * math.Log(freqs.Of(g.At(0)))
	}
	return math.Log(freqs.Of(g.At(0))) + math.Log(freqs.Of(g.At(1))) + logprob.Ln(2)
}

func logHardyWeinbergPolyploid(g genotype.Genotype, freqs *Frequencies) float64 {
	counts := g.UniqueCounts()
	multiplicities := make([]int, len(counts))
	var r float64
	for i, hc := range counts {
		multiplicities[i] = hc.Count
		r += float64(hc.Count) * math.Log(freqs.Of(hc.Haplotype))
	}
	return logprob.LogMultinomialCoefficient(multiplicities) + r
}
