package core

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	errNotAnObject      = errors.New("document data must be a JSON object")
)

type (
	// DocumentStore persists schemaless JSON documents in hierarchical collections,
	// e.g. Collection("users", uid, "subjects", sid, "attendance").
	// createdAt & updatedAt are assigned by the store, never by callers.
	DocumentStore interface {
		// Add stores data under a generated id.
		Add(ctx context.Context, collection string, data interface{}) (Document, error)
		Get(ctx context.Context, collection, id string) (Document, error)
		// Query returns the documents matching q; without q.OrderBy, documents come in id order.
		Query(ctx context.Context, collection string, q Query) ([]Document, error)
		// Set merges data into the document, creating it if it does not exist.
		// createdAt is only assigned on creation.
		Set(ctx context.Context, collection, id string, data interface{}) (Document, error)
		// Update merges data into an existing document; ErrDocumentNotFound if there is none.
		Update(ctx context.Context, collection, id string, data interface{}) (Document, error)
		// Delete removes the document; deleting a missing document is not an error.
		// Sub-collections are left untouched.
		Delete(ctx context.Context, collection, id string) error
		Close() error
	}

	Document struct {
		ID        string
		Data      json.RawMessage
		CreatedAt time.Time
		UpdatedAt time.Time
	}
)

// Collection builds a collection path from its segments.
func Collection(segments ...string) string {
	return strings.Join(segments, "/")
}

// Decode unmarshals the document data into v.
func (doc Document) Decode(v interface{}) error {
	if err := json.Unmarshal(doc.Data, v); err != nil {
		return errors.Wrapf(err, "decoding document %q", doc.ID)
	}
	return nil
}

// EncodeData marshals v, which must encode to a JSON object.
func EncodeData(v interface{}) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding document data")
	}
	var obj map[string]json.RawMessage
	if err = json.Unmarshal(b, &obj); err != nil || obj == nil {
		return nil, errNotAnObject
	}
	return b, nil
}

// MergeData shallow-merges the top-level keys of patch into base.
func MergeData(base json.RawMessage, patch interface{}) (json.RawMessage, error) {
	p, err := EncodeData(patch)
	if err != nil {
		return nil, err
	}
	if len(base) == 0 {
		return p, nil
	}

	var merged, changes map[string]json.RawMessage
	if err = json.Unmarshal(base, &merged); err != nil {
		return nil, errors.Wrap(err, "decoding stored document")
	}
	if merged == nil {
		merged = make(map[string]json.RawMessage, 8)
	}
	if err = json.Unmarshal(p, &changes); err != nil {
		return nil, errors.Wrap(err, "decoding patch")
	}
	for k, v := range changes {
		merged[k] = v
	}

	out, err := json.Marshal(merged)
	return out, errors.Wrap(err, "encoding merged document")
}
