package caller

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-call/internal/genotype"
)

func testWorkItems(t *testing.T, n int) chan WorkItem {
	t.Helper()
	items := make(chan WorkItem, n)
	for i := 0; i < n; i++ {
		a := hap("ACGT")
		b := hap("ACTT")
		items <- WorkItem{
			Seq:        i,
			Region:     testRegion,
			Sample:     fmt.Sprintf("sample%02d", i),
			Haplotypes: []genotype.Haplotype{a, b},
			Cache:      hetCache(t, a, b),
		}
	}
	close(items)
	return items
}

func TestParallelInfer_AllItemsProcessed(t *testing.T) {
	results := ParallelInfer(testWorkItems(t, 20), DefaultOptions(), 4)

	seen := make(map[int]bool)
	for r := range results {
		assert.False(t, seen[r.Seq], "duplicate seq %d", r.Seq)
		seen[r.Seq] = true
		assert.Len(t, r.Latents.Genotypes, 3)
	}
	assert.Len(t, seen, 20)
}

func TestOrderedCollect_SequenceOrder(t *testing.T) {
	results := ParallelInfer(testWorkItems(t, 25), DefaultOptions(), 8)

	var order []int
	err := OrderedCollect(results, func(r WorkResult) error {
		order = append(order, r.Seq)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, order, 25)
	for i, seq := range order {
		assert.Equal(t, i, seq)
	}
}

func TestOrderedCollect_PropagatesError(t *testing.T) {
	results := ParallelInfer(testWorkItems(t, 10), DefaultOptions(), 2)

	wantErr := errors.New("sink failed")
	calls := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		calls++
		if r.Seq == 3 {
			return wantErr
		}
		return nil
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 4, calls)
}

func TestOrderedCollect_GappedSequenceStillDelivers(t *testing.T) {
	// A producer that skips bad units can leave holes in the sequence
	// numbers; every result must still come out, in ascending order.
	results := make(chan WorkResult, 3)
	for _, seq := range []int{2, 0, 5} {
		results <- WorkResult{Seq: seq, Region: testRegion, Sample: fmt.Sprintf("sample%02d", seq)}
	}
	close(results)

	var order []int
	err := OrderedCollect(results, func(r WorkResult) error {
		order = append(order, r.Seq)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 5}, order)
}

func TestOrderedCollect_GapErrorPropagates(t *testing.T) {
	results := make(chan WorkResult, 2)
	results <- WorkResult{Seq: 0, Region: testRegion, Sample: "sample00"}
	results <- WorkResult{Seq: 3, Region: testRegion, Sample: "sample03"}
	close(results)

	wantErr := errors.New("sink failed")
	err := OrderedCollect(results, func(r WorkResult) error {
		if r.Seq == 3 {
			return wantErr
		}
		return nil
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestParallelInfer_DefaultWorkerCount(t *testing.T) {
	results := ParallelInfer(testWorkItems(t, 5), DefaultOptions(), 0)

	count := 0
	for range results {
		count++
	}
	assert.Equal(t, 5, count)
}
