package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStatus string

func newDoc(t *testing.T, id string, data map[string]interface{}, updatedAt ...time.Time) Document {
	b, err := json.Marshal(data)
	require.NoError(t, err)
	doc := Document{ID: id, Data: b}
	if len(updatedAt) > 0 {
		doc.UpdatedAt = updatedAt[0]
	}
	return doc
}

func ids(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestQuery_Apply(t *testing.T) {
	now := time.Now()
	docs := []Document{
		newDoc(t, "a", map[string]interface{}{"status": "pending", "dueOn": 20251125, "pinned": true}, now),
		newDoc(t, "b", map[string]interface{}{"status": "completed", "dueOn": 20251101, "pinned": false}, now.Add(time.Hour)),
		newDoc(t, "c", map[string]interface{}{"status": "pending", "dueOn": 20251110}, now.Add(-time.Hour)),
		newDoc(t, "d", map[string]interface{}{"status": "pending", "dueOn": 20251125, "date": "2025-11-20"}, now),
	}

	tests := []struct {
		name    string
		query   Query
		wantIDs []string
	}{
		{name: "no filters keeps id order", query: Query{}, wantIDs: []string{"a", "b", "c", "d"}},
		{name: "equality", query: Query{}.Where("status", OpEqual, "pending"), wantIDs: []string{"a", "c", "d"}},
		{name: "named string type", query: Query{}.Where("status", OpEqual, testStatus("completed")), wantIDs: []string{"b"}},
		{name: "int vs json number", query: Query{}.Where("dueOn", OpEqual, 20251110), wantIDs: []string{"c"}},
		{
			name:    "range",
			query:   Query{}.Where("dueOn", OpGreaterOrEqual, 20251105).Where("dueOn", OpLessOrEqual, 20251120),
			wantIDs: []string{"c"},
		},
		{name: "bool", query: Query{}.Where("pinned", OpEqual, false), wantIDs: []string{"b"}},
		{name: "missing field never matches", query: Query{}.Where("date", OpLessOrEqual, "2099-01-01"), wantIDs: []string{"d"}},
		{name: "type mismatch never matches", query: Query{}.Where("dueOn", OpEqual, "20251110"), wantIDs: []string{}},
		{name: "order asc is stable", query: Query{OrderBy: "dueOn"}, wantIDs: []string{"b", "c", "a", "d"}},
		{name: "order desc is stable", query: Query{OrderBy: "dueOn", Desc: true}, wantIDs: []string{"a", "d", "c", "b"}},
		{name: "order puts missing last", query: Query{OrderBy: "pinned", Desc: true}, wantIDs: []string{"a", "b", "c", "d"}},
		{name: "order by updatedAt", query: Query{OrderBy: FieldUpdatedAt, Desc: true}, wantIDs: []string{"b", "a", "d", "c"}},
		{name: "limit", query: Query{OrderBy: "dueOn", Limit: 2}, wantIDs: []string{"b", "c"}},
		{name: "limit larger than result", query: Query{Limit: 10}, wantIDs: []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query.Apply(docs)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(got))
		})
	}
}

func TestQuery_Where_doesNotAlias(t *testing.T) {
	base := Query{}.Where("status", OpEqual, "pending")
	q1 := base.Where("dueOn", OpEqual, 1)
	q2 := base.Where("dueOn", OpEqual, 2)

	assert.Len(t, base.Filters, 1)
	assert.Equal(t, 1, q1.Filters[1].Value)
	assert.Equal(t, 2, q2.Filters[1].Value)
}

func TestQuery_EqualityFilters(t *testing.T) {
	q := Query{}.
		Where("status", OpEqual, "pending").
		Where("dueOn", OpGreaterOrEqual, 1).
		Where(FieldID, OpEqual, "x")
	assert.Equal(t, map[string]interface{}{"status": "pending"}, q.EqualityFilters())
}

func TestMergeData(t *testing.T) {
	base := json.RawMessage(`{"title":"old","pinned":true,"content":"c"}`)
	patch := struct {
		Title  *string `json:"title,omitempty"`
		Pinned *bool   `json:"pinned,omitempty"`
	}{Title: strPtr("new"), Pinned: boolPtr(false)}

	merged, err := MergeData(base, patch)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"new","pinned":false,"content":"c"}`, string(merged))

	merged, err = MergeData(nil, map[string]interface{}{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(merged))

	_, err = MergeData(base, []int{1, 2})
	assert.Equal(t, errNotAnObject, err)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
