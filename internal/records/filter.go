package records

import "time"

// Filter is a boolean predicate over record properties.
type Filter interface {
	// Match evaluates the predicate against a record locally.
	Match(r Record) bool
}

type (
	// RelationContains matches records whose relation property references ID.
	RelationContains struct {
		Property string
		ID       string
	}

	// DateOnOrAfter matches records whose date property is not before Date.
	DateOnOrAfter struct {
		Property string
		Date     time.Time
	}

	And []Filter
	Or  []Filter
)

func (f RelationContains) Match(r Record) bool {
	for _, id := range r.Relation(f.Property) {
		if id == f.ID {
			return true
		}
	}
	return false
}

func (f DateOnOrAfter) Match(r Record) bool {
	d, ok := r.Date(f.Property)
	return ok && !d.Before(f.Date)
}

func (f And) Match(r Record) bool {
	for _, sub := range f {
		if !sub.Match(r) {
			return false
		}
	}
	return true
}

func (f Or) Match(r Record) bool {
	for _, sub := range f {
		if sub.Match(r) {
			return true
		}
	}
	return false
}

// AnyRelation matches records whose relation property references any of ids.
func AnyRelation(property string, ids []string) Or {
	out := make(Or, 0, len(ids))
	for _, id := range ids {
		out = append(out, RelationContains{Property: property, ID: id})
	}
	return out
}
