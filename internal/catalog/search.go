package catalog

import "strings"

// Filter applies all non-empty criteria and returns matching records.
type Filter struct {
	Tag    string
	Search string // matches name, summary, or any tag
	Type   string
}

// Apply returns the subset of records matching all non-empty filter fields,
// in their original order.
func (f Filter) Apply(records []Record) []Record {
	out := []Record{}
	for _, r := range records {
		if f.Tag != "" && !hasTag(r, f.Tag) {
			continue
		}
		if f.Type != "" && !strings.EqualFold(r.Type, f.Type) {
			continue
		}
		if f.Search != "" && !matchesSearch(r, f.Search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// IsZero reports whether the filter has no criteria.
func (f Filter) IsZero() bool {
	return f.Tag == "" && f.Search == "" && f.Type == ""
}

func hasTag(r Record, tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func matchesSearch(r Record, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(r.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Summary), q) {
		return true
	}
	for _, t := range r.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
