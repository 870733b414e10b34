package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/roach88/obsparse/internal/resolver"
)

var _ resolver.Resolver = (*Store)(nil)

// ResolveByID implements resolver.Resolver.
func (s *Store) ResolveByID(ctx context.Context, t resolver.Type, id int64) (int64, error) {
	var got int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM entities WHERE type = ? AND id = ?`, string(t), id,
	).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, resolver.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolve %s by id: %w", t, err)
	}
	return got, nil
}

// ResolveByString implements resolver.Resolver with the same matching rule
// as resolver.Matches, ordered by id. sqlite's substr counts characters, so
// the prefix length is a rune count.
func (s *Store) ResolveByString(ctx context.Context, t resolver.Type, text string) ([]resolver.Candidate, error) {
	key := resolver.Key(text)
	if key == "" {
		return nil, resolver.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, search_name, deprecated
		FROM entities
		WHERE type = ?
		  AND (label_key = ? OR search_key = ? OR substr(label_key, 1, ?) = ?)
		ORDER BY id ASC
	`, string(t), key, key, utf8.RuneCountInString(key)+1, key+" ")
	if err != nil {
		return nil, fmt.Errorf("resolve %s by string: %w", t, err)
	}
	defer rows.Close()

	var out []resolver.Candidate
	for rows.Next() {
		var c resolver.Candidate
		if err := rows.Scan(&c.ID, &c.Label, &c.SearchName, &c.Deprecated); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	if len(out) == 0 {
		return nil, resolver.ErrNotFound
	}
	return out, nil
}

// CheckPermission implements resolver.Resolver.
func (s *Store) CheckPermission(ctx context.Context, t resolver.Type, id int64, perm resolver.Permission, actor int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM grants
		WHERE type = ? AND id = ? AND permission = ? AND actor = ?
	`, string(t), id, string(perm), actor).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check permission: %w", err)
	}
	return n > 0, nil
}
