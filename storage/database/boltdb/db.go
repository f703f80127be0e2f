package boltdb

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/trezcool/taskly/core"
)

type (
	// DB stores every collection in its own top-level bucket, keyed by document id.
	DB struct {
		bolt  *bolt.DB
		clock core.Clock
	}

	envelope struct {
		CreatedAt time.Time       `json:"createdAt"`
		UpdatedAt time.Time       `json:"updatedAt"`
		Data      json.RawMessage `json:"data"`
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

// Open opens (or creates) the bolt file at path.
func Open(path string, opts ...Option) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	db := &DB{bolt: bdb, clock: time.Now}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

func (db *DB) now() time.Time {
	return db.clock().UTC()
}

func decode(id string, raw []byte) (core.Document, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return core.Document{}, errors.Wrapf(err, "decoding document %q", id)
	}
	return core.Document{ID: id, Data: env.Data, CreatedAt: env.CreatedAt, UpdatedAt: env.UpdatedAt}, nil
}

func put(b *bolt.Bucket, doc core.Document) error {
	raw, err := json.Marshal(envelope{CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt, Data: doc.Data})
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}
	return b.Put([]byte(doc.ID), raw)
}

func (db *DB) Add(ctx context.Context, collection string, data interface{}) (core.Document, error) {
	if err := ctx.Err(); err != nil {
		return core.Document{}, err
	}
	raw, err := core.EncodeData(data)
	if err != nil {
		return core.Document{}, err
	}

	now := db.now()
	doc := core.Document{ID: uuid.NewString(), Data: raw, CreatedAt: now, UpdatedAt: now}
	err = db.bolt.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return err
		}
		return put(b, doc)
	})
	if err != nil {
		return core.Document{}, errors.Wrapf(err, "adding to %s", collection)
	}
	return doc, nil
}

func (db *DB) Get(ctx context.Context, collection, id string) (core.Document, error) {
	if err := ctx.Err(); err != nil {
		return core.Document{}, err
	}

	var doc core.Document
	err := db.bolt.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return core.ErrDocumentNotFound
		}
		raw := b.Get([]byte(id))
		if raw == nil {
			return core.ErrDocumentNotFound
		}
		var err error
		doc, err = decode(id, raw)
		return err
	})
	return doc, err
}

func (db *DB) Query(ctx context.Context, collection string, q core.Query) ([]core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([]core.Document, 0)
	err := db.bolt.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		// keys are iterated in byte order, i.e. by id
		return b.ForEach(func(k, v []byte) error {
			if v == nil { // nested bucket
				return nil
			}
			doc, err := decode(string(k), v)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "querying %s", collection)
	}
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

	var doc core.Document
	err := db.bolt.Update(func(tx *bolt.Tx) error {
		var b *bolt.Bucket
		if upsert {
			var err error
			if b, err = tx.CreateBucketIfNotExists([]byte(collection)); err != nil {
				return err
			}
		} else if b = tx.Bucket([]byte(collection)); b == nil {
			return core.ErrDocumentNotFound
		}

		now := db.now()
		doc = core.Document{ID: id, CreatedAt: now}
		if raw := b.Get([]byte(id)); raw != nil {
			var err error
			if doc, err = decode(id, raw); err != nil {
				return err
			}
		} else if !upsert {
			return core.ErrDocumentNotFound
		}

		merged, err := core.MergeData(doc.Data, data)
		if err != nil {
			return err
		}
		doc.Data = merged
		doc.UpdatedAt = now
		return put(b, doc)
	})
	if err != nil {
		return core.Document{}, err
	}
	return doc, nil
}

func (db *DB) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.bolt.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(id))
	})
}

func (db *DB) Close() error {
	return db.bolt.Close()
}
