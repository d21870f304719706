// Package sqlite implements the projection store on SQLite with embedded
// migrations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/louisbranch/voidsheet/internal/platform/errors"
	"github.com/louisbranch/voidsheet/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/voidsheet/internal/services/sheet/storage"
	"github.com/louisbranch/voidsheet/internal/services/sheet/storage/sqlite/migrations"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store is the SQLite-backed projection store.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ storage.ProjectionStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens the projection store at path and applies migrations. The path
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, apperrors.New(apperrors.CodeStorageFailed, "storage path is required")
	}

	dsn := ":memory:?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageFailed, "open sqlite db", err)
	}
	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, apperrors.Wrap(apperrors.CodeStorageFailed, "ping sqlite db", err)
	}
	if _, err := sqlitemigrate.Apply(ctx, sqlDB, migrations.ProjectionsFS, "projections"); err != nil {
		_ = sqlDB.Close()
		return nil, apperrors.Wrap(apperrors.CodeStorageFailed, "run migrations", err)
	}

	store := &Store{sqlDB: sqlDB, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Close closes the database. It is nil-safe.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutProjection replaces the projection and its bindings in one transaction.
func (s *Store) PutProjection(ctx context.Context, p storage.Projection) error {
	if strings.TrimSpace(p.ActorID) == "" {
		return apperrors.New(apperrors.CodeActorEmptyID, "actor id is required")
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageFailed, "begin projection transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO derived_projections (actor_id, name, kind, rules_version, fingerprint, derived_json, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(actor_id) DO UPDATE SET
    name = excluded.name,
    kind = excluded.kind,
    rules_version = excluded.rules_version,
    fingerprint = excluded.fingerprint,
    derived_json = excluded.derived_json,
    updated_at = excluded.updated_at`,
		p.ActorID, p.Name, p.Kind, p.RulesVersion, p.Fingerprint, p.Derived, toMillis(updatedAt),
	); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageFailed, "upsert projection", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM derived_bindings WHERE actor_id = ?", p.ActorID); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageFailed, "clear bindings", err)
	}
	for _, name := range slices.Sorted(maps.Keys(p.Bindings)) {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO derived_bindings (actor_id, name, value) VALUES (?, ?, ?)",
			p.ActorID, name, p.Bindings[name],
		); err != nil {
			return apperrors.Wrap(apperrors.CodeStorageFailed, fmt.Sprintf("insert binding %s", name), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageFailed, "commit projection", err)
	}
	return nil
}

// GetProjection loads one projection with its bindings.
func (s *Store) GetProjection(ctx context.Context, actorID string) (storage.Projection, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT actor_id, name, kind, rules_version, fingerprint, derived_json, updated_at
FROM derived_projections WHERE actor_id = ?`, actorID)
	p, err := scanProjection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Projection{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Projection{}, apperrors.Wrap(apperrors.CodeStorageFailed, "get projection", err)
	}
	bindings, err := s.bindings(ctx, actorID)
	if err != nil {
		return storage.Projection{}, err
	}
	p.Bindings = bindings
	return p, nil
}

// ListProjections loads every projection ordered by actor id.
func (s *Store) ListProjections(ctx context.Context) ([]storage.Projection, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT actor_id, name, kind, rules_version, fingerprint, derived_json, updated_at
FROM derived_projections ORDER BY actor_id`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageFailed, "list projections", err)
	}
	var out []storage.Projection
	for rows.Next() {
		p, err := scanProjection(rows)
		if err != nil {
			_ = rows.Close()
			return nil, apperrors.Wrap(apperrors.CodeStorageFailed, "scan projection", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, apperrors.Wrap(apperrors.CodeStorageFailed, "read projections", err)
	}
	_ = rows.Close()

	for i := range out {
		bindings, err := s.bindings(ctx, out[i].ActorID)
		if err != nil {
			return nil, err
		}
		out[i].Bindings = bindings
	}
	return out, nil
}

// DeleteProjection removes a projection and its bindings.
func (s *Store) DeleteProjection(ctx context.Context, actorID string) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageFailed, "begin delete transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM derived_bindings WHERE actor_id = ?", actorID); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageFailed, "delete bindings", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM derived_projections WHERE actor_id = ?", actorID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageFailed, "delete projection", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageFailed, "delete projection", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageFailed, "commit delete", err)
	}
	return nil
}

func (s *Store) bindings(ctx context.Context, actorID string) (map[string]float64, error) {
	rows, err := s.sqlDB.QueryContext(ctx, "SELECT name, value FROM derived_bindings WHERE actor_id = ? ORDER BY name", actorID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageFailed, "list bindings", err)
	}
	defer rows.Close()

	out := map[string]float64{}
	for rows.Next() {
		var name string
		var value float64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageFailed, "scan binding", err)
		}
		out[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageFailed, "read bindings", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProjection(row scanner) (storage.Projection, error) {
	var p storage.Projection
	var updatedAt int64
	if err := row.Scan(&p.ActorID, &p.Name, &p.Kind, &p.RulesVersion, &p.Fingerprint, &p.Derived, &updatedAt); err != nil {
		return storage.Projection{}, err
	}
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}
