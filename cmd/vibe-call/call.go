package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-call/internal/caller"
	"github.com/inodb/vibe-call/internal/output"
	"github.com/inodb/vibe-call/internal/popgen"
	"github.com/inodb/vibe-call/internal/store"
)

func newCallCmd() *cobra.Command {
	var (
		ploidy         int
		maxIterations  int
		tolerance      float64
		workers        int
		outputFile     string
		mutationPrior  bool
		withHaplotypes bool
	)

	cmd := &cobra.Command{
		Use:   "call <likelihood-store>",
		Short: "Compute genotype posteriors from a likelihood store",
		Long: `Run genotype inference over every (region, sample) unit of a likelihood
store. The store is either a DuckDB file produced by 'vibe-call convert' or a
tab-delimited matrix (region, sample, haplotype sequence, comma-separated
per-read log-likelihoods).`,
		Example: `  vibe-call call likelihoods.duckdb
  vibe-call call --ploidy 3 --output posteriors.tsv likelihoods.tsv
  vibe-call call --mutation-prior --haplotypes likelihoods.duckdb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := caller.Options{
				Ploidy:        ploidy,
				MaxIterations: maxIterations,
				Tolerance:     tolerance,
			}
			return runCall(args[0], outputFile, opts, workers, mutationPrior, withHaplotypes)
		},
	}

	cmd.Flags().IntVarP(&ploidy, "ploidy", "p", viper.GetInt("call.ploidy"), "Genotype ploidy")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", viper.GetInt("call.max-iterations"), "EM iteration cap")
	cmd.Flags().Float64Var(&tolerance, "tolerance", viper.GetFloat64("call.tolerance"), "EM frequency convergence tolerance")
	cmd.Flags().IntVar(&workers, "workers", viper.GetInt("call.workers"), "Worker count (0 = all CPUs)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&mutationPrior, "mutation-prior", false,
		"Seed frequencies from mutation-distance prior counts; the first haplotype of each unit is taken as the reference")
	cmd.Flags().BoolVar(&withHaplotypes, "haplotypes", false, "Also report per-haplotype posterior support")

	return cmd
}

func runCall(inputPath, outputFile string, opts caller.Options, workers int, mutationPrior, withHaplotypes bool) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	if opts.Ploidy < 0 {
		return fmt.Errorf("ploidy must be non-negative, got %d", opts.Ploidy)
	}

	units, err := loadUnits(inputPath)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		logger.Warn("likelihood store holds no units", zap.String("input", inputPath))
		return nil
	}
	logger.Info("loaded likelihood store",
		zap.String("input", inputPath),
		zap.Int("units", len(units)))

	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}
	writer := output.NewTabWriter(out)
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	items := make(chan caller.WorkItem, len(units))
	go func() {
		defer close(items)
		// Seq counts sent items only, so skipped units leave no gap for
		// OrderedCollect to wait on.
		seq := 0
		for _, u := range units {
			cache, err := u.Prime()
			if err != nil {
				logger.Warn("skipping unit",
					zap.String("region", u.Region.String()),
					zap.String("sample", u.Sample),
					zap.Error(err))
				continue
			}
			items <- caller.WorkItem{
				Seq:        seq,
				Region:     u.Region,
				Sample:     u.Sample,
				Haplotypes: u.Haplotypes,
				Cache:      cache,
			}
			seq++
		}
	}()

	callOpts := opts
	if mutationPrior {
		callOpts.Scorer = popgen.NewMutationScorer()
	}
	results := caller.ParallelInfer(items, callOpts, workers)

	if err := caller.OrderedCollect(results, func(r caller.WorkResult) error {
		logger.Debug("unit inferred",
			zap.String("region", r.Region.String()),
			zap.String("sample", r.Sample),
			zap.Int("genotypes", len(r.Latents.Genotypes)),
			zap.Int("em_iterations", r.Latents.Iterations),
			zap.Float64("log_evidence", r.Latents.LogEvidence))
		if err := writer.WriteGenotypes(r); err != nil {
			return fmt.Errorf("write genotype posteriors: %w", err)
		}
		if withHaplotypes {
			if err := writer.WriteHaplotypes(r); err != nil {
				return fmt.Errorf("write haplotype posteriors: %w", err)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return writer.Flush()
}

// loadUnits reads the likelihood store, choosing the backend by path.
func loadUnits(path string) ([]*store.Unit, error) {
	if isDuckDB(path) {
		db, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		keys, err := db.Units()
		if err != nil {
			return nil, err
		}
		units := make([]*store.Unit, 0, len(keys))
		for _, key := range keys {
			u, err := db.LoadUnit(key)
			if err != nil {
				return nil, err
			}
			if u != nil {
				units = append(units, u)
			}
		}
		return units, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open likelihood store: %w", err)
	}
	defer f.Close()
	return store.ReadTSV(f)
}

// isDuckDB checks if a path looks like a DuckDB database file.
func isDuckDB(path string) bool {
	return strings.HasSuffix(path, ".duckdb") || strings.HasSuffix(path, ".db")
}
