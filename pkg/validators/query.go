package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"time"

	"bitwise74/goals-api/internal/model"
)

const MaxResults = 250

// ListSpec names the fields a list endpoint may filter and sort by. Filter
// names must exist in the resource's field table.
type ListSpec struct {
	Filter      []string
	Sort        []string
	DefaultSort []model.SortField
}

type ListParams struct {
	Page    string
	Results string
	Sort    string
	Query   string
}

// ListQuery validates list parameters. Filter and sort keys that are not
// allow-listed are silently dropped, as are filter values that are not plain
// scalars of the field's type. An empty sort falls back to the default order.
func ListQuery(fields []Field, spec ListSpec, p ListParams) (model.ListQuery, error) {
	q := model.ListQuery{}
	errs := map[string]string{}

	if p.Page != "" {
		n, err := strconv.Atoi(p.Page)
		switch {
		case err != nil:
			errs["page"] = "must be a number"
		case n < 0:
			errs["page"] = "can't be negative"
		default:
			q.Page = n
		}
	}

	if p.Results != "" {
		n, err := strconv.Atoi(p.Results)
		switch {
		case err != nil:
			errs["results"] = "must be a number"
		case n < 0:
			errs["results"] = "can't be negative"
		case n > MaxResults:
			errs["results"] = "must be at most " + strconv.Itoa(MaxResults)
		default:
			q.Results = n
		}
	}

	if p.Sort != "" {
		sort, err := parseSort(p.Sort, spec.Sort)
		if err != nil {
			errs["sort"] = err.Error()
		}
		q.Sort = sort
	}

	if p.Query != "" {
		filter, err := parseFilter(p.Query, fields, spec.Filter)
		if err != nil {
			errs["query"] = err.Error()
		}
		q.Filter = filter
	}

	if len(errs) > 0 {
		return model.ListQuery{}, &Invalid{Fields: errs}
	}

	if len(q.Sort) == 0 {
		q.Sort = slices.Clone(spec.DefaultSort)
	}

	return q, nil
}

var errMalformedObject = errors.New("must be a JSON object")

// parseSort reads a JSON object such as {"date":-1,"title":1} keeping the
// key order. -1 sorts descending, any other value ascending.
func parseSort(s string, allowed []string) ([]model.SortField, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, errMalformedObject
	}

	var out []model.SortField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errMalformedObject
		}

		key, ok := tok.(string)
		if !ok {
			return nil, errMalformedObject
		}

		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, errMalformedObject
		}

		if !slices.Contains(allowed, key) || slices.ContainsFunc(out, func(f model.SortField) bool { return f.Key == key }) {
			continue
		}

		out = append(out, model.SortField{Key: key, Desc: string(bytes.TrimSpace(v)) == "-1"})
	}

	if _, err := dec.Token(); err != nil {
		return nil, errMalformedObject
	}

	if dec.More() {
		return nil, errMalformedObject
	}

	return out, nil
}

func parseFilter(s string, fields []Field, allowed []string) (map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil || raw == nil {
		return nil, errMalformedObject
	}

	out := map[string]any{}
	for _, name := range allowed {
		r, ok := raw[name]
		if !ok {
			continue
		}

		f, ok := lookup(fields, name)
		if !ok || f.Kind == JSONArray || f.Kind == JSONValue || isNull(r) {
			continue
		}

		// Operators like {"$ne": ...} fail to decode as a scalar.
		v, err := f.decodeValue(r)
		if err != nil {
			continue
		}

		out[name] = deref(v)
	}

	return out, nil
}

func deref(v any) any {
	switch p := v.(type) {
	case *string:
		return *p
	case *float64:
		return *p
	case *time.Time:
		return *p
	default:
		return v
	}
}
