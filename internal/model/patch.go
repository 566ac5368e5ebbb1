package model

// Patch holds validated fields keyed by their JSON name. Values are already
// converted to the Go type of the matching struct field.
type Patch map[string]any

// Without returns a copy of p with keys removed.
func (p Patch) Without(keys ...string) Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}

	for _, k := range keys {
		delete(out, k)
	}

	return out
}

type SortField struct {
	Key  string
	Desc bool
}

// ListQuery is a sanitized list request. Results of 0 means no limit.
type ListQuery struct {
	Page    int
	Results int
	Sort    []SortField
	Filter  map[string]any
}

func (q ListQuery) Offset() int {
	return q.Page * q.Results
}
