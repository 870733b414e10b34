package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/roach88/obsparse/internal/resolver"
)

// PutEntity inserts or replaces an entity row. Lookup keys are derived from
// the label and search name.
func (s *Store) PutEntity(ctx context.Context, e resolver.Entity) error {
	return putEntity(ctx, s.db, e)
}

// Grant records that actor holds perm on an existing entity. Granting twice
// is a no-op.
func (s *Store) Grant(ctx context.Context, t resolver.Type, id int64, perm resolver.Permission, actor int64) error {
	return grant(ctx, s.db, t, id, perm, actor)
}

// LoadSeed writes every entity and grant of seed in one transaction.
func (s *Store) LoadSeed(ctx context.Context, seed *resolver.Seed) error {
	if err := seed.Validate(); err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("load seed: begin: %w", err)
	}
	defer tx.Rollback()

	for _, e := range seed.Entities {
		if err := putEntity(ctx, tx, e); err != nil {
			return fmt.Errorf("load seed: %w", err)
		}
	}
	for _, g := range seed.Grants {
		if err := grant(ctx, tx, g.Type, g.ID, g.Permission, g.Actor); err != nil {
			return fmt.Errorf("load seed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("load seed: commit: %w", err)
	}
	slog.Info("seed loaded", "entities", len(seed.Entities), "grants", len(seed.Grants))
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putEntity(ctx context.Context, db execer, e resolver.Entity) error {
	if !e.Type.Valid() {
		return fmt.Errorf("put entity: unknown type %q", e.Type)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO entities (type, id, label, search_name, label_key, search_key, deprecated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(type, id) DO UPDATE SET
			label = excluded.label,
			search_name = excluded.search_name,
			label_key = excluded.label_key,
			search_key = excluded.search_key,
			deprecated = excluded.deprecated
	`,
		string(e.Type),
		e.ID,
		e.Label,
		e.SearchName,
		resolver.Key(e.Label),
		resolver.Key(e.SearchName),
		e.Deprecated,
	)
	if err != nil {
		return fmt.Errorf("put entity %s %d: %w", e.Type, e.ID, err)
	}
	return nil
}

func grant(ctx context.Context, db execer, t resolver.Type, id int64, perm resolver.Permission, actor int64) error {
	if !perm.Valid() {
		return fmt.Errorf("grant: unknown permission %q", perm)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO grants (type, id, permission, actor)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, string(t), id, string(perm), actor)
	if err != nil {
		return fmt.Errorf("grant %s on %s %d: %w", perm, t, id, err)
	}
	return nil
}
