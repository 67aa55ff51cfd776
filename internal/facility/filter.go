package facility

import "strings"

// FilterAll is the sentinel query value meaning "no constraint on this facet".
// It never appears as a literal record value, so exact-match comparison
// against record fields is unambiguous.
const FilterAll = "all"

// Query holds the current user-selected filter facets.
type Query struct {
	// Search is a case-insensitive substring match over name, operator and
	// location type. Empty means no constraint.
	Search string `json:"search"`

	// Each facet is either FilterAll or an exact-match value.
	Status        string `json:"status"`
	Accessibility string `json:"accessibility"`
	LocationType  string `json:"location_type"`
}

// NewQuery returns a query with every facet unconstrained.
func NewQuery() Query {
	return Query{
		Status:        FilterAll,
		Accessibility: FilterAll,
		LocationType:  FilterAll,
	}
}

// Matches evaluates the record against all four predicates (logical AND).
func (q Query) Matches(f Facility) bool {
	if search := strings.ToLower(q.Search); search != "" {
		blob := strings.ToLower(f.Name + " " + f.Operator + " " + f.LocationType)
		if !strings.Contains(blob, search) {
			return false
		}
	}
	if q.Status != FilterAll && q.Status != f.Status {
		return false
	}
	if q.Accessibility != FilterAll && q.Accessibility != f.Accessibility {
		return false
	}
	if q.LocationType != FilterAll && q.LocationType != f.LocationType {
		return false
	}
	return true
}

// Filter returns the records matching the query, preserving input order.
// It is a pure function: no hidden state, no mutation of the input, safe for
// concurrent use.
func Filter(records []Facility, q Query) []Facility {
	out := make([]Facility, 0, len(records))
	for _, f := range records {
		if q.Matches(f) {
			out = append(out, f)
		}
	}
	return out
}
