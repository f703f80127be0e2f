package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/taskly/core"
)

// StoreFactory returns an empty document store stamping documents with clock.
type StoreFactory func(t *testing.T, clock core.Clock) core.DocumentStore

type item struct {
	Name  string `json:"name"`
	Rank  int    `json:"rank"`
	Done  bool   `json:"done"`
	Group string `json:"group,omitempty"`
}

func docIDs(docs []core.Document) []string {
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids
}

// RunDocumentStoreTests checks the behavior every core.DocumentStore engine must share.
func RunDocumentStoreTests(t *testing.T, newStore StoreFactory) {
	ctx := context.Background()
	start := time.Date(2025, time.November, 20, 10, 0, 0, 0, time.UTC)

	t.Run("Add & Get", func(t *testing.T) {
		store := newStore(t, NewTickClock(start))
		coll := core.Collection("users", "u1", "items")

		added, err := store.Add(ctx, coll, item{Name: "a", Rank: 2})
		require.NoError(t, err)
		assert.NotEmpty(t, added.ID)
		assert.True(t, added.CreatedAt.Equal(start))
		assert.True(t, added.UpdatedAt.Equal(start))
		assert.JSONEq(t, `{"name":"a","rank":2,"done":false}`, string(added.Data))

		got, err := store.Get(ctx, coll, added.ID)
		require.NoError(t, err)
		assert.Equal(t, added.ID, got.ID)
		assert.True(t, got.CreatedAt.Equal(start))
		assert.JSONEq(t, string(added.Data), string(got.Data))

		_, err = store.Get(ctx, coll, "missing")
		assert.Equal(t, core.ErrDocumentNotFound, err)
		_, err = store.Get(ctx, core.Collection("users", "u2", "items"), added.ID)
		assert.Equal(t, core.ErrDocumentNotFound, err)

		_, err = store.Add(ctx, coll, []int{1, 2})
		assert.Error(t, err, "data must be an object")
	})

	t.Run("Set", func(t *testing.T) {
		store := newStore(t, NewTickClock(start))
		coll := core.Collection("users", "u1", "items")

		created, err := store.Set(ctx, coll, "2025-11-20", item{Name: "a", Rank: 1})
		require.NoError(t, err)
		assert.Equal(t, "2025-11-20", created.ID)

		merged, err := store.Set(ctx, coll, "2025-11-20", map[string]interface{}{"rank": 5, "group": "x"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"a","rank":5,"done":false,"group":"x"}`, string(merged.Data))
		assert.True(t, merged.CreatedAt.Equal(created.CreatedAt), "createdAt is kept")
		assert.True(t, merged.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("Update", func(t *testing.T) {
		store := newStore(t, NewTickClock(start))
		coll := core.Collection("users", "u1", "items")

		_, err := store.Update(ctx, coll, "missing", map[string]interface{}{"rank": 1})
		assert.Equal(t, core.ErrDocumentNotFound, err)
		docs, err := store.Query(ctx, coll, core.Query{})
		require.NoError(t, err)
		assert.Empty(t, docs, "update never creates")

		added, err := store.Add(ctx, coll, item{Name: "a", Rank: 1})
		require.NoError(t, err)
		updated, err := store.Update(ctx, coll, added.ID, map[string]interface{}{"done": true})
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"a","rank":1,"done":true}`, string(updated.Data))
		assert.True(t, updated.CreatedAt.Equal(added.CreatedAt))
		assert.True(t, updated.UpdatedAt.After(added.UpdatedAt))
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t, NewTickClock(start))
		parent := core.Collection("users", "u1", "subjects")

		added, err := store.Add(ctx, parent, item{Name: "math"})
		require.NoError(t, err)
		child := core.Collection(parent, added.ID, "attendance")
		_, err = store.Set(ctx, child, "2025-11-20", item{Name: "present"})
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, parent, added.ID))
		_, err = store.Get(ctx, parent, added.ID)
		assert.Equal(t, core.ErrDocumentNotFound, err)
		assert.NoError(t, store.Delete(ctx, parent, added.ID), "deleting twice is fine")
		assert.NoError(t, store.Delete(ctx, "nothing/here", "x"))

		_, err = store.Get(ctx, child, "2025-11-20")
		assert.NoError(t, err, "sub-collections are not deleted")
	})

	t.Run("Query", func(t *testing.T) {
		store := newStore(t, NewTickClock(start))
		coll := core.Collection("users", "u1", "items")
		for _, id := range []string{"c", "a", "d", "b", "e"} {
			_, err := store.Set(ctx, coll, id, item{Name: id, Rank: map[string]int{"a": 3, "b": 1, "c": 2, "d": 1, "e": 5}[id], Done: id == "b" || id == "e"})
			require.NoError(t, err)
		}
		_, err := store.Set(ctx, coll, "f", map[string]interface{}{"name": "f"})
		require.NoError(t, err)
		_, err = store.Add(ctx, core.Collection("users", "u2", "items"), item{Name: "other"})
		require.NoError(t, err)

		tests := []struct {
			name string
			q    core.Query
			want []string
		}{
			{name: "all in id order", q: core.Query{}, want: []string{"a", "b", "c", "d", "e", "f"}},
			{name: "equality", q: core.Query{}.Where("done", core.OpEqual, true), want: []string{"b", "e"}},
			{name: "range", q: core.Query{}.Where("rank", core.OpGreaterOrEqual, 2).Where("rank", core.OpLessOrEqual, 3), want: []string{"a", "c"}},
			{name: "missing field never matches", q: core.Query{}.Where("rank", core.OpLessOrEqual, 100), want: []string{"a", "b", "c", "d", "e"}},
			{name: "order asc, ties by id", q: core.Query{OrderBy: "rank"}, want: []string{"b", "d", "c", "a", "e", "f"}},
			{name: "order desc & limit", q: core.Query{OrderBy: "rank", Desc: true, Limit: 2}, want: []string{"e", "a"}},
			{name: "by id", q: core.Query{}.Where(core.FieldID, core.OpGreaterOrEqual, "d"), want: []string{"d", "e", "f"}},
			{name: "no match", q: core.Query{}.Where("name", core.OpEqual, "zzz"), want: []string{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				docs, err := store.Query(ctx, coll, tt.q)
				require.NoError(t, err)
				assert.Equal(t, tt.want, docIDs(docs))
			})
		}

		docs, err := store.Query(ctx, "unknown/collection", core.Query{})
		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})
}
