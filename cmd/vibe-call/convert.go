package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-call/internal/store"
)

func newConvertCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "convert <input.tsv>",
		Short: "Convert a tab-delimited likelihood matrix to a DuckDB store",
		Long: `Convert a tab-delimited likelihood matrix into a DuckDB store for
reuse across calling runs and for querying with standard SQL tooling.`,
		Example: `  vibe-call convert likelihoods.tsv -o likelihoods.duckdb
  vibe-call convert likelihoods.tsv --output stores/sample1.duckdb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output DuckDB file path (required)")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runConvert(inputPath, outputPath string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	if ext := filepath.Ext(outputPath); ext != ".duckdb" && ext != ".db" {
		outputPath += ".duckdb"
	}
	if _, err := os.Stat(outputPath); err == nil {
		if err := os.Remove(outputPath); err != nil {
			return fmt.Errorf("remove existing store: %w", err)
		}
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	units, err := store.ReadTSV(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", inputPath, err)
	}
	logger.Info("parsed likelihood matrix",
		zap.String("input", inputPath),
		zap.Int("units", len(units)))

	db, err := store.Open(outputPath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, u := range units {
		if err := db.InsertUnit(u); err != nil {
			return fmt.Errorf("insert unit %s/%s: %w", u.Region, u.Sample, err)
		}
	}

	count, err := db.Count()
	if err != nil {
		return fmt.Errorf("verify store: %w", err)
	}
	logger.Info("store written",
		zap.String("output", outputPath),
		zap.Int("likelihood_values", count))

	return nil
}
