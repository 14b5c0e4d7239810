package likelihood

import (
	"github.com/inodb/vibe-call/internal/genotype"
	"github.com/inodb/vibe-call/internal/logprob"
)

// GermlineModel computes the log probability of a sample's reads given a
// candidate genotype, assuming reads are independent and each read was
// emitted by one haplotype copy chosen uniformly among the ploidy copies:
//
//	ln p(read | genotype)  = ln sum {copy in genotype} p(read | copy) - ln ploidy
//	ln p(reads | genotype) = sum {read in reads} ln p(read | genotype)
//
// The ploidy-specific methods are optimisations only; every one of them
// agrees with the general polyploid path on overlapping inputs.
type GermlineModel struct {
	cache *Cache
}

// NewGermlineModel creates a model over a likelihood cache. The cache must
// be primed before Evaluate is called.
func NewGermlineModel(cache *Cache) *GermlineModel {
	return &GermlineModel{cache: cache}
}

// Evaluate returns ln p(reads | genotype). Panics if the cache is unprimed
// or lacks a haplotype of the genotype.
func (m *GermlineModel) Evaluate(g genotype.Genotype) float64 {
	if !m.cache.IsPrimed() {
		panic("likelihood: evaluate against unprimed cache")
	}
	switch g.Ploidy() {
	case 0:
		return 0
	case 1:
		return m.evaluateHaploid(g)
	case 2:
		return m.evaluateDiploid(g)
	case 3:
		return m.evaluateTriploid(g)
	case 4:
		return m.evaluateTetraploid(g)
	default:
		return m.evaluatePolyploid(g)
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func (m *GermlineModel) evaluateHaploid(g genotype.Genotype) float64 {
	return sum(m.cache.At(g.At(0)))
}

func (m *GermlineModel) evaluateDiploid(g genotype.Genotype) float64 {
	likelihoods1 := m.cache.At(g.At(0))
	if g.IsHomozygous() {
		return sum(likelihoods1)
	}
	likelihoods2 := m.cache.At(g.At(1))
	ln2 := logprob.Ln(2)
	var total float64
	for i, a := range likelihoods1 {
		total += logprob.LogSumExp2(a, likelihoods2[i]) - ln2
	}
	return total
}

func (m *GermlineModel) evaluateTriploid(g genotype.Genotype) float64 {
	likelihoods1 := m.cache.At(g.At(0))
	if g.IsHomozygous() {
		return sum(likelihoods1)
	}
	ln2, ln3 := logprob.Ln(2), logprob.Ln(3)
	if g.Zygosity() == 3 {
		likelihoods2 := m.cache.At(g.At(1))
		likelihoods3 := m.cache.At(g.At(2))
		var total float64
		for i, a := range likelihoods1 {
			total += logprob.LogSumExp3(a, likelihoods2[i], likelihoods3[i]) - ln3
		}
		return total
	}
	if g.At(0) != g.At(1) {
		// {a, b, b}: the duplicated haplotype is the second unique one
		likelihoods2 := m.cache.At(g.At(1))
		var total float64
		for i, a := range likelihoods1 {
			total += logprob.LogSumExp2(a, ln2+likelihoods2[i]) - ln3
		}
		return total
	}
	// {a, a, b}
	likelihoods3 := m.cache.At(g.At(2))
	var total float64
	for i, a := range likelihoods1 {
		total += logprob.LogSumExp2(ln2+a, likelihoods3[i]) - ln3
	}
	return total
}

func (m *GermlineModel) evaluateTetraploid(g genotype.Genotype) float64 {
	z := g.Zygosity()
	likelihoods1 := m.cache.At(g.At(0))
	if z == 1 {
		return sum(likelihoods1)
	}
	if z == 4 {
		likelihoods2 := m.cache.At(g.At(1))
		likelihoods3 := m.cache.At(g.At(2))
		likelihoods4 := m.cache.At(g.At(3))
		ln4 := logprob.Ln(4)
		var total float64
		buf := make([]float64, 4)
		for i, a := range likelihoods1 {
			buf[0], buf[1], buf[2], buf[3] = a, likelihoods2[i], likelihoods3[i], likelihoods4[i]
			total += logprob.LogSumExp(buf) - ln4
		}
		return total
	}
	// zygosity 2 and 3 have no dedicated closed form
	return m.evaluatePolyploid(g)
}

// evaluatePolyploid handles any ploidy via the unique-haplotype /
// multiplicity formulation. Correctness never depends on the faster paths
// above; they must agree with this one.
func (m *GermlineModel) evaluatePolyploid(g genotype.Genotype) float64 {
	ploidy := g.Ploidy()
	counts := g.UniqueCounts()
	lnPloidy := logprob.Ln(ploidy)

	if len(counts) == 1 {
		return sum(m.cache.At(counts[0].Haplotype))
	}
	if len(counts) == 2 {
		likelihoods1 := m.cache.At(counts[0].Haplotype)
		likelihoods2 := m.cache.At(counts[1].Haplotype)
		w1, w2 := logprob.Ln(counts[0].Count), logprob.Ln(counts[1].Count)
		var total float64
		for i, a := range likelihoods1 {
			total += logprob.LogSumExp2(w1+a, w2+likelihoods2[i]) - lnPloidy
		}
		return total
	}

	likelihoods := make([][]float64, len(counts))
	weights := make([]float64, len(counts))
	for j, hc := range counts {
		likelihoods[j] = m.cache.At(hc.Haplotype)
		weights[j] = logprob.Ln(hc.Count)
	}
	buf := make([]float64, len(counts))
	var total float64
	for i := range likelihoods[0] {
		for j := range likelihoods {
			buf[j] = weights[j] + likelihoods[j][i]
		}
		total += logprob.LogSumExp(buf) - lnPloidy
	}
	return total
}
