package caller

import (
	"runtime"
	"sort"
	"sync"

	"github.com/inodb/vibe-call/internal/genotype"
	"github.com/inodb/vibe-call/internal/likelihood"
)

// WorkItem is one independent inference unit: a sample's primed likelihood
// cache over a region's candidate haplotypes. Each unit gets its own model
// run and its own frequency distribution; nothing is shared across units.
type WorkItem struct {
	Seq        int
	Region     genotype.Region
	Sample     string
	Haplotypes []genotype.Haplotype
	Cache      *likelihood.Cache
}

// WorkResult holds the inference output for a single work item.
type WorkResult struct {
	Seq     int
	Region  genotype.Region
	Sample  string
	Latents Latents
}

// ParallelInfer runs work items using a pool of workers, one IndividualModel
// per worker invocation. Results are sent to the returned channel in arrival
// order (not sequence order); use OrderedCollect to consume them in
// sequence-number order. If workers is 0, runtime.NumCPU() is used.
func ParallelInfer(items <-chan WorkItem, opts Options, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				model := NewIndividualModel(opts)
				results <- WorkResult{
					Seq:     item.Seq,
					Region:  item.Region,
					Sample:  item.Sample,
					Latents: model.InferLatents(item.Haplotypes, item.Cache),
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order. It
// buffers out-of-order results in a pending map and emits them as soon as
// the next expected sequence number is available. Blocks until the results
// channel is closed. Results still pending at close (a gap in the sequence
// numbers) are delivered in ascending order rather than dropped.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	if len(pending) == 0 {
		return nil
	}
	seqs := make([]int, 0, len(pending))
	for s := range pending {
		seqs = append(seqs, s)
	}
	sort.Ints(seqs)
	for _, s := range seqs {
		if err := fn(pending[s]); err != nil {
			return err
		}
	}
	return nil
}
