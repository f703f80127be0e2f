package pgdocs

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
)

const columns = "id, data, created_at, updated_at"

type (
	// DB keeps every document in the `documents` table, data being a jsonb object.
	DB struct {
		db    *sqlx.DB
		clock core.Clock
	}

	row struct {
		ID        string    `db:"id"`
		Data      []byte    `db:"data"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}

	Option func(*DB)
)

var _ core.DocumentStore = (*DB)(nil) // interface compliance check

// WithClock sets the clock used to stamp documents.
func WithClock(clock core.Clock) Option {
	return func(pg *DB) {
		if clock != nil {
			pg.clock = clock
		}
	}
}

// New wraps an open postgres connection pool. The schema must already be migrated.
func New(db *sql.DB, opts ...Option) *DB {
	pg := &DB{db: sqlx.NewDb(db, "postgres"), clock: time.Now}
	for _, opt := range opts {
		opt(pg)
	}
	return pg
}

func (pg *DB) now() time.Time {
	return pg.clock().UTC()
}

func (r row) document() core.Document {
	return core.Document{
		ID:        r.ID,
		Data:      json.RawMessage(r.Data),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func (pg *DB) Add(ctx context.Context, collection string, data interface{}) (core.Document, error) {
	raw, err := core.EncodeData(data)
	if err != nil {
		return core.Document{}, err
	}

	now := pg.now()
	var r row
	err = pg.db.GetContext(ctx, &r, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $4)
		RETURNING `+columns,
		collection, uuid.NewString(), string(raw), now,
	)
	if err != nil {
		return core.Document{}, errors.Wrapf(err, "adding to %s", collection)
	}
	return r.document(), nil
}

func (pg *DB) Get(ctx context.Context, collection, id string) (core.Document, error) {
	var r row
	err := pg.db.GetContext(ctx, &r,
		`SELECT `+columns+` FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Document{}, core.ErrDocumentNotFound
		}
		return core.Document{}, errors.Wrapf(err, "getting %s/%s", collection, id)
	}
	return r.document(), nil
}

// Query narrows the rows down with jsonb containment for equality filters,
// then evaluates the whole query in memory.
func (pg *DB) Query(ctx context.Context, collection string, q core.Query) ([]core.Document, error) {
	contains, err := json.Marshal(q.EqualityFilters())
	if err != nil {
		return nil, errors.Wrap(err, "encoding filters")
	}

	var rows []row
	err = pg.db.SelectContext(ctx, &rows, `
		SELECT `+columns+` FROM documents
		WHERE collection = $1 AND data @> $2::jsonb
		ORDER BY id`,
		collection, string(contains),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "querying %s", collection)
	}

	docs := make([]core.Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, r.document())
	}
	return q.Apply(docs)
}

func (pg *DB) Set(ctx context.Context, collection, id string, data interface{}) (core.Document, error) {
	raw, err := core.EncodeData(data)
	if err != nil {
		return core.Document{}, err
	}

	now := pg.now()
	var r row
	err = pg.db.GetContext(ctx, &r, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $4)
		ON CONFLICT (collection, id) DO UPDATE
		SET data = documents.data || EXCLUDED.data, updated_at = EXCLUDED.updated_at
		RETURNING `+columns,
		collection, id, string(raw), now,
	)
	if err != nil {
		return core.Document{}, errors.Wrapf(err, "setting %s/%s", collection, id)
	}
	return r.document(), nil
}

func (pg *DB) Update(ctx context.Context, collection, id string, data interface{}) (core.Document, error) {
	raw, err := core.EncodeData(data)
	if err != nil {
		return core.Document{}, err
	}

	var r row
	err = pg.db.GetContext(ctx, &r, `
		UPDATE documents SET data = data || $3::jsonb, updated_at = $4
		WHERE collection = $1 AND id = $2
		RETURNING `+columns,
		collection, id, string(raw), pg.now(),
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.Document{}, core.ErrDocumentNotFound
		}
		return core.Document{}, errors.Wrapf(err, "updating %s/%s", collection, id)
	}
	return r.document(), nil
}

func (pg *DB) Delete(ctx context.Context, collection, id string) error {
	_, err := pg.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	return errors.Wrapf(err, "deleting %s/%s", collection, id)
}

func (pg *DB) Close() error {
	return pg.db.Close()
}
