// Package sqlite implements a persistent shape library on SQLite.
//
// Shapes are stored as their JSON encoding, so reading a row runs the same
// validation as decoding a document.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/shape"
	"github.com/matzehuels/drawkit/pkg/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS shapes (
    id         TEXT PRIMARY KEY,
    kind       TEXT NOT NULL,
    name       TEXT NOT NULL DEFAULT '',
    data       BLOB NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS shapes_kind ON shapes(kind);
`

var _ store.Store = (*Store)(nil)

// Store is a [store.Store] backed by a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	s := New(db)
	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database. Call Init before use.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init creates the schema if missing.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return derrors.Wrap(derrors.ErrCodeInternal, err, "apply schema")
	}
	return nil
}

// ============================================================
// store.Store
// ============================================================

func (s *Store) Put(ctx context.Context, sh *shape.Shape) error {
	if sh == nil {
		return derrors.New(derrors.ErrCodeInvalidInput, "cannot store nil shape")
	}
	data, err := json.Marshal(sh)
	if err != nil {
		return derrors.Wrap(derrors.ErrCodeInternal, err, "encode shape %s", sh.ID())
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO shapes (id, kind, name, data)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            kind = excluded.kind,
            name = excluded.name,
            data = excluded.data,
            updated_at = CURRENT_TIMESTAMP
    `, sh.ID(), string(sh.Kind()), sh.Name, data)
	if err != nil {
		return derrors.Wrap(derrors.ErrCodeInternal, err, "insert shape %s", sh.ID())
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*shape.Shape, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM shapes WHERE id = ?`, id)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, derrors.New(derrors.ErrCodeNotFound, "shape %q not found", id)
		}
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "query shape %s", id)
	}
	return decode(id, data)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM shapes WHERE id = ?`, id); err != nil {
		return derrors.Wrap(derrors.ErrCodeInternal, err, "delete shape %s", id)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]*shape.Shape, error) {
	return s.query(ctx, `SELECT id, data FROM shapes ORDER BY created_at, rowid`)
}

// ListKind returns the stored shapes of one kind.
func (s *Store) ListKind(ctx context.Context, kind shape.Kind) ([]*shape.Shape, error) {
	return s.query(ctx, `SELECT id, data FROM shapes WHERE kind = ? ORDER BY created_at, rowid`, string(kind))
}

// Count returns the number of stored shapes.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shapes`).Scan(&n); err != nil {
		return 0, derrors.Wrap(derrors.ErrCodeInternal, err, "count shapes")
	}
	return n, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) query(ctx context.Context, q string, args ...any) ([]*shape.Shape, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "list shapes")
	}
	defer rows.Close()

	var out []*shape.Shape
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "scan shape")
		}
		sh, err := decode(id, data)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "list shapes")
	}
	return out, nil
}

func decode(id string, data []byte) (*shape.Shape, error) {
	var sh shape.Shape
	if err := json.Unmarshal(data, &sh); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "decode stored shape %s", id)
	}
	return &sh, nil
}

// ============================================================
// Connection
// ============================================================

func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidPath, err, "create directory for %s", path)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "open %s", path)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
