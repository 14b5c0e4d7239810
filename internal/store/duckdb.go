package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-call/internal/genotype"
)

// DB is a DuckDB-backed likelihood store. The upstream alignment engine
// writes one row per (region, sample, haplotype, read); calls load whole
// (region, sample) units back out to prime caches.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path. Use an empty
// string for an in-memory database.
func Open(path string) (*DB, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &DB{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS likelihoods (
		region VARCHAR,
		sample VARCHAR,
		haplotype VARCHAR,
		read_idx INTEGER,
		loglik DOUBLE,
		PRIMARY KEY (region, sample, haplotype, read_idx)
	)`)
	return err
}

// InsertUnit stores a full (region, sample) matrix.
func (s *DB) InsertUnit(u *Unit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO likelihoods (region, sample, haplotype, read_idx, loglik)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	region := u.Region.String()
	for _, h := range u.Haplotypes {
		for i, v := range u.Matrix[h] {
			if _, err := stmt.Exec(region, u.Sample, h.Sequence, i, v); err != nil {
				return fmt.Errorf("insert %s/%s/%s[%d]: %w", region, u.Sample, h.Sequence, i, err)
			}
		}
	}
	return tx.Commit()
}

// UnitKey identifies one stored (region, sample) matrix.
type UnitKey struct {
	Region genotype.Region
	Sample string
}

// Units returns the stored (region, sample) pairs in a stable order.
func (s *DB) Units() ([]UnitKey, error) {
	rows, err := s.db.Query(`SELECT DISTINCT region, sample FROM likelihoods ORDER BY region, sample`)
	if err != nil {
		return nil, fmt.Errorf("query units: %w", err)
	}
	defer rows.Close()

	var keys []UnitKey
	for rows.Next() {
		var regionStr, sample string
		if err := rows.Scan(&regionStr, &sample); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		region, err := genotype.ParseRegion(regionStr)
		if err != nil {
			return nil, fmt.Errorf("stored region: %w", err)
		}
		keys = append(keys, UnitKey{Region: region, Sample: sample})
	}
	return keys, rows.Err()
}

// LoadUnit reads one (region, sample) matrix back. Returns nil if the unit
// does not exist.
func (s *DB) LoadUnit(key UnitKey) (*Unit, error) {
	rows, err := s.db.Query(`SELECT haplotype, read_idx, loglik FROM likelihoods
		WHERE region = ? AND sample = ?
		ORDER BY haplotype, read_idx`, key.Region.String(), key.Sample)
	if err != nil {
		return nil, fmt.Errorf("query unit %s/%s: %w", key.Region, key.Sample, err)
	}
	defer rows.Close()

	unit := NewUnit(key.Region, key.Sample)
	var (
		current string
		values  []float64
		started bool
	)
	flush := func() error {
		if !started {
			return nil
		}
		return unit.Add(genotype.NewHaplotype(key.Region, current), values)
	}
	for rows.Next() {
		var seq string
		var idx int
		var v float64
		if err := rows.Scan(&seq, &idx, &v); err != nil {
			return nil, fmt.Errorf("scan likelihood: %w", err)
		}
		if !started || seq != current {
			if err := flush(); err != nil {
				return nil, err
			}
			current, values, started = seq, nil, true
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if !started {
		return nil, nil
	}
	return unit, nil
}

// Count returns the total number of stored likelihood values.
func (s *DB) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM likelihoods`).Scan(&count)
	return count, err
}
