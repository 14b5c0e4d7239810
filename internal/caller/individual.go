// Package caller runs single-sample genotype inference: it combines the
// germline likelihood model with the Hardy-Weinberg prior and refines
// population haplotype frequencies with an EM loop.
package caller

import (
	"math"

	"go.uber.org/zap"

	"github.com/inodb/vibe-call/internal/genotype"
	"github.com/inodb/vibe-call/internal/likelihood"
	"github.com/inodb/vibe-call/internal/logprob"
	"github.com/inodb/vibe-call/internal/popgen"
)

// Options configures an inference run.
type Options struct {
	// Ploidy is the number of haplotype copies per genotype.
	Ploidy int
	// MaxIterations caps the EM loop.
	MaxIterations int
	// Tolerance stops the EM loop once the largest per-haplotype frequency
	// change falls at or below it.
	Tolerance float64
	// Scorer, when set, seeds frequencies from prior counts scored against
	// Reference instead of a uniform distribution. A zero Reference means
	// the first haplotype of each work unit stands in as the reference.
	Scorer    popgen.PriorScorer
	Reference genotype.Haplotype
}

// DefaultOptions returns diploid inference with the usual EM settings.
func DefaultOptions() Options {
	return Options{
		Ploidy:        2,
		MaxIterations: 100,
		Tolerance:     1e-4,
	}
}

// Latents holds the inferred posterior quantities for one work unit.
// Genotypes and GenotypePosteriors are parallel slices in enumeration
// order; HaplotypePosteriors follows the haplotype input order.
type Latents struct {
	Genotypes          []genotype.Genotype
	GenotypePosteriors []float64

	Haplotypes          []genotype.Haplotype
	HaplotypePosteriors []float64

	// Frequencies is the final population frequency estimate.
	Frequencies *Frequencies
	// LogEvidence is ln p(reads), the final posterior normalizer.
	LogEvidence float64
	// Iterations is how many EM iterations ran.
	Iterations int
}

// Frequencies re-exports the popgen distribution so callers of this package
// do not need to import popgen for the common read-only case.
type Frequencies = popgen.Frequencies

// IndividualModel infers genotype posteriors for one sample over one set of
// candidate haplotypes. A model instance belongs to a single work unit; it
// holds no shared state and performs no I/O.
type IndividualModel struct {
	opts   Options
	logger *zap.Logger
}

// NewIndividualModel creates a model with the given options.
func NewIndividualModel(opts Options) *IndividualModel {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultOptions().Tolerance
	}
	return &IndividualModel{opts: opts, logger: zap.NewNop()}
}

// SetLogger sets the logger for per-iteration diagnostics.
func (m *IndividualModel) SetLogger(l *zap.Logger) {
	m.logger = l
}

// InferLatents enumerates all genotypes of the configured ploidy over haps,
// scores them against the primed cache, and alternates posterior
// computation with frequency re-estimation until the frequencies converge.
func (m *IndividualModel) InferLatents(haps []genotype.Haplotype, cache *likelihood.Cache) Latents {
	genotypes := genotype.Enumerate(haps, m.opts.Ploidy)
	model := likelihood.NewGermlineModel(cache)

	logLikelihoods := make([]float64, len(genotypes))
	for i, g := range genotypes {
		logLikelihoods[i] = model.Evaluate(g)
	}

	freqs := m.initialFrequencies(haps)

	logJoint := make([]float64, len(genotypes))
	posteriors := make([]float64, len(genotypes))
	var logEvidence float64
	iterations := 0

	for iterations < m.opts.MaxIterations {
		iterations++
		for i, g := range genotypes {
			logJoint[i] = logLikelihoods[i] + popgen.LogHardyWeinberg(g, freqs)
		}
		logEvidence = logprob.LogSumExp(logJoint)
		for i := range logJoint {
			posteriors[i] = math.Exp(logJoint[i] - logEvidence)
		}

		counts := popgen.NewExpectedCounts(haps)
		for i, g := range genotypes {
			for _, hc := range g.UniqueCounts() {
				counts.Add(hc.Haplotype, float64(hc.Count)*posteriors[i])
			}
		}
		next := popgen.EstimateFrequencies(counts)

		diff := popgen.MaxDifference(next, freqs)
		freqs = next
		m.logger.Debug("EM iteration",
			zap.Int("iteration", iterations),
			zap.Float64("max_frequency_change", diff),
			zap.Float64("log_evidence", logEvidence))
		if diff <= m.opts.Tolerance {
			break
		}
	}

	// Final posteriors under the converged frequencies.
	for i, g := range genotypes {
		logJoint[i] = logLikelihoods[i] + popgen.LogHardyWeinberg(g, freqs)
	}
	logEvidence = logprob.LogSumExp(logJoint)
	for i := range logJoint {
		posteriors[i] = math.Exp(logJoint[i] - logEvidence)
	}

	return Latents{
		Genotypes:           genotypes,
		GenotypePosteriors:  posteriors,
		Haplotypes:          haps,
		HaplotypePosteriors: haplotypePosteriors(haps, genotypes, posteriors),
		Frequencies:         freqs,
		LogEvidence:         logEvidence,
		Iterations:          iterations,
	}
}

func (m *IndividualModel) initialFrequencies(haps []genotype.Haplotype) *popgen.Frequencies {
	if m.opts.Scorer == nil {
		return popgen.UniformFrequencies(haps)
	}
	ref := m.opts.Reference
	if ref == (genotype.Haplotype{}) {
		ref = haps[0]
	}
	counts := popgen.ComputePriorCounts(haps, ref, m.opts.Scorer)
	return popgen.FrequenciesFromCounts(counts)
}

// haplotypePosteriors marginalizes genotype posteriors: the posterior of a
// haplotype is the total posterior of every genotype containing at least one
// copy of it.
func haplotypePosteriors(haps []genotype.Haplotype, genotypes []genotype.Genotype, posteriors []float64) []float64 {
	result := make([]float64, len(haps))
	for i, h := range haps {
		var total float64
		for j, g := range genotypes {
			if g.Count(h) > 0 {
				total += posteriors[j]
			}
		}
		result[i] = total
	}
	return result
}
