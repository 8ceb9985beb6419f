package records

import "time"

// Value is a typed property value.
type Value interface {
	plain() any
}

type (
	TitleValue    string
	RelationValue []string
	NumberValue   float64
	DateValue     time.Time
)

func (v TitleValue) plain() any    { return string(v) }
func (v RelationValue) plain() any { return []string(v) }
func (v NumberValue) plain() any   { return float64(v) }
func (v DateValue) plain() any     { return time.Time(v).Format(time.RFC3339) }

// Relation builds a relation value pointing at ids.
func Relation(ids ...string) RelationValue {
	return RelationValue(ids)
}
