package genotype

import (
	"sort"
	"strings"
)

// Genotype is a multiset of exactly Ploidy() haplotype copies. Elements are
// kept in canonical sorted order, so two genotypes built from the same
// haplotypes in any order compare equal and iterate identically. A genotype
// never changes after construction.
type Genotype struct {
	haps []Haplotype
}

// New creates a genotype from the given haplotype copies. The ploidy is
// fixed as len(haps); ploidy 0 is allowed.
func New(haps ...Haplotype) Genotype {
	sorted := make([]Haplotype, len(haps))
	copy(sorted, haps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	return Genotype{haps: sorted}
}

// Ploidy returns the number of haplotype copies.
func (g Genotype) Ploidy() int {
	return len(g.haps)
}

// At returns the i-th haplotype copy in canonical order.
func (g Genotype) At(i int) Haplotype {
	return g.haps[i]
}

// IsHomozygous reports whether all copies are the same haplotype.
// The empty genotype is homozygous by convention.
func (g Genotype) IsHomozygous() bool {
	if len(g.haps) < 2 {
		return true
	}
	return g.haps[0] == g.haps[len(g.haps)-1]
}

// Zygosity returns the number of distinct haplotypes in the genotype.
func (g Genotype) Zygosity() int {
	if len(g.haps) == 0 {
		return 0
	}
	z := 1
	for i := 1; i < len(g.haps); i++ {
		if g.haps[i] != g.haps[i-1] {
			z++
		}
	}
	return z
}

// Count returns the multiplicity of h within the genotype.
func (g Genotype) Count(h Haplotype) int {
	n := 0
	for _, cur := range g.haps {
		if cur == h {
			n++
		}
	}
	return n
}

// HaplotypeCount pairs a unique haplotype with its multiplicity.
type HaplotypeCount struct {
	Haplotype Haplotype
	Count     int
}

// UniqueCounts returns the distinct haplotypes with their multiplicities,
// in canonical order. Multiplicities sum to the ploidy.
func (g Genotype) UniqueCounts() []HaplotypeCount {
	if len(g.haps) == 0 {
		return nil
	}
	counts := []HaplotypeCount{{Haplotype: g.haps[0], Count: 1}}
	for i := 1; i < len(g.haps); i++ {
		if g.haps[i] == g.haps[i-1] {
			counts[len(counts)-1].Count++
		} else {
			counts = append(counts, HaplotypeCount{Haplotype: g.haps[i], Count: 1})
		}
	}
	return counts
}

// Equal reports whether two genotypes are the same multiset.
func (g Genotype) Equal(o Genotype) bool {
	if len(g.haps) != len(o.haps) {
		return false
	}
	for i := range g.haps {
		if g.haps[i] != o.haps[i] {
			return false
		}
	}
	return true
}

func (g Genotype) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, h := range g.haps {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(h.Sequence)
	}
	b.WriteByte('}')
	return b.String()
}
