// Package output provides posterior table formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/inodb/vibe-call/internal/caller"
)

// TabWriter writes genotype and haplotype posteriors in tab-delimited form.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Record",
			"Region",
			"Sample",
			"Value",
			"Posterior",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// WriteGenotypes writes one row per candidate genotype of a work result,
// highest posterior first. Ties keep the enumeration order, so output is
// stable across runs.
func (tw *TabWriter) WriteGenotypes(r caller.WorkResult) error {
	order := make([]int, len(r.Latents.Genotypes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return r.Latents.GenotypePosteriors[order[a]] > r.Latents.GenotypePosteriors[order[b]]
	})

	for _, i := range order {
		row := []string{
			"genotype",
			r.Region.String(),
			r.Sample,
			r.Latents.Genotypes[i].String(),
			formatPosterior(r.Latents.GenotypePosteriors[i]),
		}
		if _, err := tw.w.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteHaplotypes writes one row per haplotype with its marginal posterior
// support, in the unit's haplotype order.
func (tw *TabWriter) WriteHaplotypes(r caller.WorkResult) error {
	for i, h := range r.Latents.Haplotypes {
		row := []string{
			"haplotype",
			r.Region.String(),
			r.Sample,
			h.Sequence,
			formatPosterior(r.Latents.HaplotypePosteriors[i]),
		}
		if _, err := tw.w.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func formatPosterior(p float64) string {
	return fmt.Sprintf("%.6g", p)
}
