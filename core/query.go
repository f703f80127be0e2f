package core

import (
	"encoding/json"
	"reflect"
	"sort"
	"time"
)

// Query operators
const (
	OpEqual          Op = "=="
	OpGreaterOrEqual Op = ">="
	OpLessOrEqual    Op = "<="
)

// Fields held by the Document itself rather than its data.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

type (
	Op string

	Filter struct {
		Field string
		Op    Op
		Value interface{}
	}

	// Query selects documents of a collection. Filters are ANDed.
	// Values compare by JSON type (numbers with numbers, strings with strings, false < true).
	// A document missing the field never matches.
	Query struct {
		Filters []Filter
		OrderBy string
		Desc    bool
		Limit   int
	}
)

// Where returns a copy of q with one more filter.
func (q Query) Where(field string, op Op, value interface{}) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Field: field, Op: op, Value: value})
	return q
}

// EqualityFilters returns the `==` filters on data fields.
func (q Query) EqualityFilters() map[string]interface{} {
	eq := make(map[string]interface{}, len(q.Filters))
	for _, f := range q.Filters {
		if f.Op == OpEqual && !isDocField(f.Field) {
			eq[f.Field] = f.Value
		}
	}
	return eq
}

// Apply filters, orders & limits docs. docs are expected in id order; ties keep that order.
func (q Query) Apply(docs []Document) ([]Document, error) {
	type row struct {
		doc    Document
		fields map[string]interface{}
	}

	rows := make([]row, 0, len(docs))
	for _, doc := range docs {
		var fields map[string]interface{}
		if len(doc.Data) > 0 {
			if err := json.Unmarshal(doc.Data, &fields); err != nil {
				return nil, err
			}
		}
		r := row{doc: doc, fields: fields}
		if q.matches(r.doc, r.fields) {
			rows = append(rows, r)
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			a, aOk := fieldValue(rows[i].doc, rows[i].fields, q.OrderBy)
			b, bOk := fieldValue(rows[j].doc, rows[j].fields, q.OrderBy)
			// documents missing the field go last
			if !aOk || !bOk {
				return aOk && !bOk
			}
			c, ok := compare(a, b)
			if !ok {
				return false
			}
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	out := make([]Document, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.doc)
	}
	return out, nil
}

func (q Query) matches(doc Document, fields map[string]interface{}) bool {
	for _, f := range q.Filters {
		val, ok := fieldValue(doc, fields, f.Field)
		if !ok {
			return false
		}
		c, ok := compare(val, normalize(f.Value))
		if !ok {
			return false
		}
		switch f.Op {
		case OpEqual:
			if c != 0 {
				return false
			}
		case OpGreaterOrEqual:
			if c < 0 {
				return false
			}
		case OpLessOrEqual:
			if c > 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isDocField(field string) bool {
	return field == FieldID || field == FieldCreatedAt || field == FieldUpdatedAt
}

func fieldValue(doc Document, fields map[string]interface{}, field string) (interface{}, bool) {
	switch field {
	case FieldID:
		return doc.ID, true
	case FieldCreatedAt:
		return doc.CreatedAt, true
	case FieldUpdatedAt:
		return doc.UpdatedAt, true
	}
	val, ok := fields[field]
	if !ok || val == nil {
		return nil, false
	}
	return val, true
}

// normalize maps Go filter values onto the types encoding/json decodes into.
func normalize(v interface{}) interface{} {
	if _, ok := v.(time.Time); ok {
		return v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return v
}

// compare returns -1, 0 or 1; ok is false when a & b are not comparable.
func compare(a, b interface{}) (int, bool) {
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case !x && y:
			return -1, true
		case x && !y:
			return 1, true
		}
		return 0, true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case x.Before(y):
			return -1, true
		case x.After(y):
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
