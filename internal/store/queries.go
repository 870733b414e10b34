package store

import (
	"context"
	"fmt"

	"github.com/roach88/obsparse/internal/ir"
)

// Query surfaces.
const (
	SurfaceSearch = "search"
	SurfaceParams = "params"
)

// QueryRecord is one logged parse result.
type QueryRecord struct {
	Fingerprint string `json:"fingerprint"`
	Surface     string `json:"surface"`
	Input       string `json:"input"`
	Result      string `json:"result"` // canonical JSON
	Seq         int64  `json:"seq"`
	Hits        int64  `json:"hits"`
}

func domainFor(surface string) (string, error) {
	switch surface {
	case SurfaceSearch:
		return ir.DomainQuery, nil
	case SurfaceParams:
		return ir.DomainParams, nil
	}
	return "", fmt.Errorf("unknown surface %q", surface)
}

// RecordQuery logs a parse result under its content fingerprint and returns
// the fingerprint. Inputs that parse to the same value share one row; the
// first input is kept and later ones increment its hit count.
func (s *Store) RecordQuery(ctx context.Context, surface, input string, result ir.Value) (string, error) {
	domain, err := domainFor(surface)
	if err != nil {
		return "", fmt.Errorf("record query: %w", err)
	}
	fp, err := ir.Fingerprint(domain, result)
	if err != nil {
		return "", fmt.Errorf("record query: %w", err)
	}
	body, err := ir.MarshalCanonical(result)
	if err != nil {
		return "", fmt.Errorf("record query: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO queries (fingerprint, surface, input, result, seq)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM queries))
		ON CONFLICT(fingerprint) DO UPDATE SET hits = hits + 1
	`, fp, surface, input, string(body))
	if err != nil {
		return "", fmt.Errorf("record query: %w", err)
	}
	return fp, nil
}

// Queries returns logged queries oldest first.
func (s *Store) Queries(ctx context.Context) ([]QueryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fingerprint, surface, input, result, seq, hits
		FROM queries
		ORDER BY seq ASC, fingerprint COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}
	defer rows.Close()

	out := []QueryRecord{}
	for rows.Next() {
		var q QueryRecord
		if err := rows.Scan(&q.Fingerprint, &q.Surface, &q.Input, &q.Result, &q.Seq, &q.Hits); err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queries: %w", err)
	}
	return out, nil
}
