// Package store caches synthetic bundles and vectorized evaluation results
// in a local sqlite database (modernc.org/sqlite): a struct wrapping
// *sql.DB, a CREATE TABLE IF NOT EXISTS schema established at open, and
// base64-wrapped snapshot blobs in the data columns.
package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/stratoquant/alphaql/internal/snapshot"
	"github.com/stratoquant/alphaql/panel"
)

// ErrNotFound is returned when a cache lookup misses.
var ErrNotFound = errors.New("store: not found")

// Store is a sqlite-backed cache of synthetic bundles (keyed by the
// parameters that generated them) and vectorized evaluation results (keyed
// by a bundle key plus the expression's source text).
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its tables exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS bundles (
		cache_key TEXT NOT NULL PRIMARY KEY,
		data      TEXT NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("store: creating bundles table: %w", err)
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS eval_results (
		bundle_key TEXT NOT NULL,
		expr       TEXT NOT NULL,
		data       TEXT NOT NULL,
		PRIMARY KEY (bundle_key, expr)
	);`)
	if err != nil {
		return fmt.Errorf("store: creating eval_results table: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutBundle stores a synthetic bundle under cacheKey, overwriting any
// existing entry.
func (s *Store) PutBundle(ctx context.Context, cacheKey string, b *panel.Bundle) error {
	enc, err := snapshot.Encode(b)
	if err != nil {
		return fmt.Errorf("store: encoding bundle: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bundles (cache_key, data) VALUES (?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET data = excluded.data`,
		cacheKey, base64.StdEncoding.EncodeToString(enc))
	if err != nil {
		return fmt.Errorf("store: writing bundle %q: %w", cacheKey, err)
	}
	return nil
}

// GetBundle fetches a previously cached bundle, or ErrNotFound.
func (s *Store) GetBundle(ctx context.Context, cacheKey string) (*panel.Bundle, error) {
	var encoded string
	row := s.db.QueryRowContext(ctx, `SELECT data FROM bundles WHERE cache_key = ?`, cacheKey)
	if err := row.Scan(&encoded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: reading bundle %q: %w", cacheKey, err)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("store: decoding bundle %q: %w", cacheKey, err)
	}
	b, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store: decoding bundle %q: %w", cacheKey, err)
	}
	return b, nil
}

// PutResult caches a vectorized evaluation result panel for (bundleKey, expr).
func (s *Store) PutResult(ctx context.Context, bundleKey, expr string, result *panel.Panel) error {
	b, err := panel.NewBundle(result.Dates, result.Symbols)
	if err != nil {
		return err
	}
	if _, err := b.AddField("value", result.Data); err != nil {
		return err
	}
	enc, err := snapshot.Encode(b)
	if err != nil {
		return fmt.Errorf("store: encoding result: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO eval_results (bundle_key, expr, data) VALUES (?, ?, ?)
		 ON CONFLICT(bundle_key, expr) DO UPDATE SET data = excluded.data`,
		bundleKey, expr, base64.StdEncoding.EncodeToString(enc))
	if err != nil {
		return fmt.Errorf("store: writing result for %q: %w", expr, err)
	}
	return nil
}

// GetResult fetches a previously cached evaluation result, or ErrNotFound.
func (s *Store) GetResult(ctx context.Context, bundleKey, expr string) (*panel.Panel, error) {
	var encoded string
	row := s.db.QueryRowContext(ctx,
		`SELECT data FROM eval_results WHERE bundle_key = ? AND expr = ?`, bundleKey, expr)
	if err := row.Scan(&encoded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: reading result for %q: %w", expr, err)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("store: decoding result for %q: %w", expr, err)
	}
	b, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store: decoding result for %q: %w", expr, err)
	}
	p, ok := b.Field("value")
	if !ok {
		return nil, fmt.Errorf("store: cached result for %q is missing its value field", expr)
	}
	return p, nil
}
