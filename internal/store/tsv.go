package store

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-call/internal/genotype"
)

// ReadTSV parses a tab-delimited likelihood matrix:
//
//	region <TAB> sample <TAB> sequence <TAB> v1,v2,...
//
// with '#' comment lines. One row per (region, sample, haplotype); every row
// of the same (region, sample) must carry the same number of per-read
// values. Units come back in first-seen order.
func ReadTSV(r io.Reader) ([]*Unit, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	type unitKey struct {
		region genotype.Region
		sample string
	}
	byKey := make(map[unitKey]*Unit)
	var units []*Unit

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: want 4 tab-delimited fields, got %d", lineNo, len(fields))
		}
		region, err := genotype.ParseRegion(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		sample := fields[1]
		if sample == "" {
			return nil, fmt.Errorf("line %d: empty sample", lineNo)
		}
		hap := genotype.NewHaplotype(region, fields[2])

		parts := strings.Split(fields[3], ",")
		values := make([]float64, len(parts))
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad log-likelihood %q: %w", lineNo, p, err)
			}
			values[i] = v
		}

		key := unitKey{region: region, sample: sample}
		unit, ok := byKey[key]
		if !ok {
			unit = NewUnit(region, sample)
			byKey[key] = unit
			units = append(units, unit)
		} else if existing := len(unit.Matrix[unit.Haplotypes[0]]); existing != len(values) {
			return nil, fmt.Errorf("line %d: %d read likelihoods for %s, but unit %s/%s has %d reads",
				lineNo, len(values), hap, region, sample, existing)
		}
		if err := unit.Add(hap, values); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read likelihood tsv: %w", err)
	}
	return units, nil
}
