package records

import (
	"context"
	"encoding/json"
	"time"
)

// Store is the outbound port to the hosted document database.
type Store interface {
	// Query returns every record of the collection matching filter, in the
	// requested order. A nil filter matches everything. Only the first page of
	// results returned by the remote service is considered.
	Query(ctx context.Context, collectionID string, filter Filter, sorts ...Sort) ([]Record, error)

	// Create inserts a new record into the collection.
	Create(ctx context.Context, collectionID string, fields Fields) (Record, error)
}

type (
	// Sort orders a query by a single property.
	Sort struct {
		Property   string
		Descending bool
	}

	// Fields maps property names to typed values for record creation.
	Fields map[string]Value

	// Record is one item of a collection with its decoded properties.
	Record struct {
		ID          string
		CreatedTime time.Time
		Properties  map[string]Value

		// Raw is the payload the remote service returned for the record, if any.
		Raw json.RawMessage
	}
)

// Title returns the text of a title property, or "" when absent.
func (r Record) Title(name string) string {
	if v, ok := r.Properties[name].(TitleValue); ok {
		return string(v)
	}
	return ""
}

// Relation returns the ids referenced by a relation property.
func (r Record) Relation(name string) []string {
	if v, ok := r.Properties[name].(RelationValue); ok {
		return []string(v)
	}
	return nil
}

// FirstRelation returns the first referenced id, or "" when the relation is empty.
func (r Record) FirstRelation(name string) string {
	if ids := r.Relation(name); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// Number returns a number property and whether it was set.
func (r Record) Number(name string) (float64, bool) {
	if v, ok := r.Properties[name].(NumberValue); ok {
		return float64(v), true
	}
	return 0, false
}

// Date returns a date property and whether it was set.
func (r Record) Date(name string) (time.Time, bool) {
	if v, ok := r.Properties[name].(DateValue); ok {
		return time.Time(v), true
	}
	return time.Time{}, false
}

// MarshalJSON emits the remote payload when present, otherwise a flat view
// of the record.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	props := make(map[string]any, len(r.Properties))
	for k, v := range r.Properties {
		props[k] = v.plain()
	}
	return json.Marshal(struct {
		ID          string         `json:"id"`
		CreatedTime time.Time      `json:"created_time"`
		Properties  map[string]any `json:"properties"`
	}{r.ID, r.CreatedTime, props})
}
