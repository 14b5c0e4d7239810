// Package genotype provides the haplotype and genotype value types used by
// the likelihood and population-genetics models.
package genotype

import (
	"fmt"
	"strconv"
	"strings"
)

// Region is a half-open genomic interval on a contig, 1-based.
type Region struct {
	Contig string
	Start  int64
	End    int64
}

// ParseRegion parses a region in "contig:start-end" form.
func ParseRegion(s string) (Region, error) {
	colon := strings.LastIndexByte(s, ':')
	if colon < 0 {
		return Region{}, fmt.Errorf("region %q: missing ':'", s)
	}
	contig := s[:colon]
	if contig == "" {
		return Region{}, fmt.Errorf("region %q: empty contig", s)
	}
	span := s[colon+1:]
	dash := strings.IndexByte(span, '-')
	if dash < 0 {
		return Region{}, fmt.Errorf("region %q: missing '-'", s)
	}
	start, err := strconv.ParseInt(span[:dash], 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("region %q: bad start: %w", s, err)
	}
	end, err := strconv.ParseInt(span[dash+1:], 10, 64)
	if err != nil {
		return Region{}, fmt.Errorf("region %q: bad end: %w", s, err)
	}
	if end < start {
		return Region{}, fmt.Errorf("region %q: end before start", s)
	}
	return Region{Contig: contig, Start: start, End: end}, nil
}

// String formats the region as "contig:start-end".
func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Contig, r.Start, r.End)
}

// Haplotype is an immutable sequence variant over a genomic region.
// Identity is by value (region + sequence), so haplotypes are directly
// usable as map keys.
type Haplotype struct {
	Region   Region
	Sequence string
}

// NewHaplotype creates a haplotype for a sequence over a region.
func NewHaplotype(region Region, sequence string) Haplotype {
	return Haplotype{Region: region, Sequence: sequence}
}

// Less orders haplotypes by (contig, start, end, sequence). The ordering has
// no biological meaning; it only fixes a canonical element order inside
// genotypes so that iteration and equality are deterministic.
func (h Haplotype) Less(o Haplotype) bool {
	if h.Region.Contig != o.Region.Contig {
		return h.Region.Contig < o.Region.Contig
	}
	if h.Region.Start != o.Region.Start {
		return h.Region.Start < o.Region.Start
	}
	if h.Region.End != o.Region.End {
		return h.Region.End < o.Region.End
	}
	return h.Sequence < o.Sequence
}

func (h Haplotype) String() string {
	return fmt.Sprintf("%s<%s>", h.Region, h.Sequence)
}
