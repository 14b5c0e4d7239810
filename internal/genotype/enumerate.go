package genotype

// NumGenotypes returns the number of distinct genotypes of the given ploidy
// over n haplotypes: C(n+ploidy-1, ploidy).
func NumGenotypes(n, ploidy int) int {
	if n == 0 && ploidy > 0 {
		return 0
	}
	// multiplicative form keeps intermediate values small
	result := 1
	for i := 1; i <= ploidy; i++ {
		result = result * (n + i - 1) / i
	}
	return result
}

// Enumerate returns every distinct genotype of the given ploidy that can be
// formed from haps (combinations with repetition). The order is
// deterministic: lexicographic over haplotype indices in the order given.
func Enumerate(haps []Haplotype, ploidy int) []Genotype {
	if ploidy == 0 {
		return []Genotype{New()}
	}
	if len(haps) == 0 {
		return nil
	}
	result := make([]Genotype, 0, NumGenotypes(len(haps), ploidy))
	selection := make([]Haplotype, 0, ploidy)
	var rec func(first, remaining int)
	rec = func(first, remaining int) {
		if remaining == 0 {
			result = append(result, New(selection...))
			return
		}
		for i := first; i < len(haps); i++ {
			selection = append(selection, haps[i])
			rec(i, remaining-1)
			selection = selection[:len(selection)-1]
		}
	}
	rec(0, ploidy)
	return result
}
