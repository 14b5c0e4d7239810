package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-call/internal/caller"
	"github.com/inodb/vibe-call/internal/genotype"
)

func testResult() caller.WorkResult {
	region := genotype.Region{Contig: "7", Start: 140753300, End: 140753400}
	a := genotype.NewHaplotype(region, "ACGT")
	b := genotype.NewHaplotype(region, "ACTT")
	return caller.WorkResult{
		Seq:    0,
		Region: region,
		Sample: "NA12878",
		Latents: caller.Latents{
			Genotypes: []genotype.Genotype{
				genotype.New(a, a),
				genotype.New(a, b),
				genotype.New(b, b),
			},
			GenotypePosteriors:  []float64{0.01, 0.97, 0.02},
			Haplotypes:          []genotype.Haplotype{a, b},
			HaplotypePosteriors: []float64{0.98, 0.99},
		},
	}
}

func TestTabWriter_Genotypes(t *testing.T) {
	var sb strings.Builder
	tw := NewTabWriter(&sb)
	require.NoError(t, tw.WriteHeader())
	require.NoError(t, tw.WriteGenotypes(testResult()))
	require.NoError(t, tw.Flush())

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "#Record\tRegion\tSample\tValue\tPosterior", lines[0])

	// Rows come out highest posterior first.
	assert.Equal(t, "genotype\t7:140753300-140753400\tNA12878\t{ACGT ACTT}\t0.97", lines[1])
	assert.Equal(t, "genotype\t7:140753300-140753400\tNA12878\t{ACTT ACTT}\t0.02", lines[2])
	assert.Equal(t, "genotype\t7:140753300-140753400\tNA12878\t{ACGT ACGT}\t0.01", lines[3])
}

func TestTabWriter_Haplotypes(t *testing.T) {
	var sb strings.Builder
	tw := NewTabWriter(&sb)
	require.NoError(t, tw.WriteHaplotypes(testResult()))
	require.NoError(t, tw.Flush())

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "haplotype\t7:140753300-140753400\tNA12878\tACGT\t0.98", lines[0])
	assert.Equal(t, "haplotype\t7:140753300-140753400\tNA12878\tACTT\t0.99", lines[1])
}

func TestTabWriter_TiesKeepEnumerationOrder(t *testing.T) {
	r := testResult()
	r.Latents.GenotypePosteriors = []float64{0.3, 0.3, 0.4}

	var sb strings.Builder
	tw := NewTabWriter(&sb)
	require.NoError(t, tw.WriteGenotypes(r))
	require.NoError(t, tw.Flush())

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "{ACTT ACTT}")
	assert.Contains(t, lines[1], "{ACGT ACGT}")
	assert.Contains(t, lines[2], "{ACGT ACTT}")
}
