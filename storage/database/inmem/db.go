package inmemdb

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/taskly/core"
)

type (
	DB struct {
		clock core.Clock

		mutex       sync.RWMutex
		collections map[string]*table
	}

	table struct {
		rows map[string]*row
	}

	row struct {
		data      json.RawMessage
		createdAt time.Time
		updatedAt time.Time
	}

	Option func(*DB)
)

var _ core.DocumentStore = (*DB)(nil) // interface compliance check

// WithClock sets the clock used to stamp documents.
func WithClock(clock core.Clock) Option {
	return func(db *DB) {
		if clock != nil {
			db.clock = clock
		}
	}
}

// Open returns an empty in-memory document store.
func Open(opts ...Option) *DB {
	db := &DB{
		clock:       time.Now,
		collections: make(map[string]*table),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

func (db *DB) now() time.Time {
	return db.clock().UTC()
}

// tableFor must be called with the write lock held.
func (db *DB) tableFor(collection string) *table {
	t, ok := db.collections[collection]
	if !ok {
		t = &table{rows: make(map[string]*row)}
		db.collections[collection] = t
	}
	return t
}

func (r *row) document(id string) core.Document {
	data := make(json.RawMessage, len(r.data))
	copy(data, r.data)
	return core.Document{ID: id, Data: data, CreatedAt: r.createdAt, UpdatedAt: r.updatedAt}
}

func (db *DB) Add(ctx context.Context, collection string, data interface{}) (core.Document, error) {
	if err := ctx.Err(); err != nil {
		return core.Document{}, err
	}
	raw, err := core.EncodeData(data)
	if err != nil {
		return core.Document{}, err
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	now := db.now()
	id := uuid.NewString()
	r := &row{data: raw, createdAt: now, updatedAt: now}
	db.tableFor(collection).rows[id] = r
	return r.document(id), nil
}

func (db *DB) Get(ctx context.Context, collection, id string) (core.Document, error) {
	if err := ctx.Err(); err != nil {
		return core.Document{}, err
	}

	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if t, ok := db.collections[collection]; ok {
		if r, ok := t.rows[id]; ok {
			return r.document(id), nil
		}
	}
	return core.Document{}, core.ErrDocumentNotFound
}

func (db *DB) Query(ctx context.Context, collection string, q core.Query) ([]core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db.mutex.RLock()
	t, ok := db.collections[collection]
	if !ok {
		db.mutex.RUnlock()
		return []core.Document{}, nil
	}
	ids := make([]string, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	docs := make([]core.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, t.rows[id].document(id))
	}
	db.mutex.RUnlock()

	return q.Apply(docs)
}

func (db *DB) Set(ctx context.Context, collection, id string, data interface{}) (core.Document, error) {
	return db.merge(ctx, collection, id, data, true)
}

func (db *DB) Update(ctx context.Context, collection, id string, data interface{}) (core.Document, error) {
	return db.merge(ctx, collection, id, data, false)
}

func (db *DB) merge(ctx context.Context, collection, id string, data interface{}, upsert bool) (core.Document, error) {
	if err := ctx.Err(); err != nil {
		return core.Document{}, err
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	t := db.tableFor(collection)
	now := db.now()
	r, ok := t.rows[id]
	if !ok {
		if !upsert {
			return core.Document{}, core.ErrDocumentNotFound
		}
		r = &row{createdAt: now}
	}

	merged, err := core.MergeData(r.data, data)
	if err != nil {
		return core.Document{}, err
	}
	r.data = merged
	r.updatedAt = now
	t.rows[id] = r
	return r.document(id), nil
}

func (db *DB) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	if t, ok := db.collections[collection]; ok {
		delete(t.rows, id)
	}
	return nil
}

func (db *DB) Close() error {
	return nil
}
