package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"bitwise74/goals-api/internal/model"
)

var ErrMalformedBody = errors.New("malformed or invalid JSON request body")

type Kind int

const (
	String Kind = iota
	Number
	Int
	Bool
	Time
	JSONArray
	JSONValue
)

// Field describes one accepted body key. Decoded values have these types:
//
//	String    string, or *string when Nullable
//	Number    float64, or *float64 when Nullable
//	Int       int
//	Bool      bool
//	Time      time.Time, or *time.Time when Nullable
//	JSONArray model.JSON holding an array
//	JSONValue model.JSON holding an object or an array
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Nullable bool

	// OneOf restricts String and Int values.
	OneOf []string

	// Lenient JSON fields also accept the value encoded as a JSON string.
	Lenient bool

	// Check runs after decoding. It may return a replacement value.
	Check func(v any) (any, error)
}

// Invalid lists every field that failed validation with its reason.
type Invalid struct {
	Fields map[string]string
}

func (e *Invalid) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}

	return "invalid fields: " + strings.Join(parts, ", ")
}

// Decode validates body against fields. Keys that are not listed are
// dropped. With partial set, required fields may be absent.
func Decode(body []byte, fields []Field, partial bool) (model.Patch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, ErrMalformedBody
	}

	patch := model.Patch{}
	errs := map[string]string{}

	for _, f := range fields {
		r, ok := raw[f.Name]
		if !ok {
			if f.Required && !partial {
				errs[f.Name] = "is required"
			}
			continue
		}

		v, err := f.decode(r)
		if err != nil {
			errs[f.Name] = err.Error()
			continue
		}

		patch[f.Name] = v
	}

	if len(errs) > 0 {
		return nil, &Invalid{Fields: errs}
	}

	return patch, nil
}

func lookup(fields []Field, name string) (Field, bool) {
	i := slices.IndexFunc(fields, func(f Field) bool { return f.Name == name })
	if i < 0 {
		return Field{}, false
	}

	return fields[i], true
}

func isNull(r json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(r), []byte("null"))
}

func (f Field) decode(r json.RawMessage) (any, error) {
	if isNull(r) {
		if !f.Nullable {
			return nil, errors.New("can't be null")
		}

		return f.null(), nil
	}

	v, err := f.decodeValue(r)
	if err != nil {
		return nil, err
	}

	if f.Check != nil {
		return f.Check(v)
	}

	return v, nil
}

func (f Field) null() any {
	switch f.Kind {
	case String:
		return (*string)(nil)
	case Number:
		return (*float64)(nil)
	case Time:
		return (*time.Time)(nil)
	default:
		return nil
	}
}

func (f Field) decodeValue(r json.RawMessage) (any, error) {
	switch f.Kind {
	case String:
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return nil, errors.New("must be a string")
		}

		if len(f.OneOf) > 0 && !slices.Contains(f.OneOf, s) {
			return nil, fmt.Errorf("must be one of %s", strings.Join(f.OneOf, ", "))
		}

		if f.Nullable {
			return &s, nil
		}
		return s, nil

	case Number:
		var n float64
		if err := json.Unmarshal(r, &n); err != nil {
			return nil, errors.New("must be a number")
		}

		if f.Nullable {
			return &n, nil
		}
		return n, nil

	case Int:
		var n float64
		if err := json.Unmarshal(r, &n); err != nil || n != math.Trunc(n) {
			return nil, errors.New("must be an integer")
		}

		i := int(n)
		if len(f.OneOf) > 0 && !slices.Contains(f.OneOf, strconv.Itoa(i)) {
			return nil, fmt.Errorf("must be one of %s", strings.Join(f.OneOf, ", "))
		}
		return i, nil

	case Bool:
		var b bool
		if err := json.Unmarshal(r, &b); err != nil {
			return nil, errors.New("must be a boolean")
		}
		return b, nil

	case Time:
		t, err := parseTime(r)
		if err != nil {
			return nil, err
		}

		if f.Nullable {
			return &t, nil
		}
		return t, nil

	case JSONArray, JSONValue:
		return f.decodeJSON(r)
	}

	return nil, fmt.Errorf("unsupported field kind %d", f.Kind)
}

func (f Field) decodeJSON(r json.RawMessage) (any, error) {
	r = bytes.TrimSpace(r)

	if f.Lenient && len(r) > 0 && r[0] == '"' {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return nil, errors.New("must be valid JSON")
		}

		r = bytes.TrimSpace([]byte(s))
		if !json.Valid(r) {
			return nil, errors.New("must be valid JSON")
		}
	}

	if len(r) == 0 {
		return nil, errors.New("must be valid JSON")
	}

	switch {
	case r[0] == '[':
	case r[0] == '{' && f.Kind == JSONValue:
	case f.Kind == JSONArray:
		return nil, errors.New("must be an array")
	default:
		return nil, errors.New("must be an object or an array")
	}

	return model.JSON(bytes.Clone(r)), nil
}

// parseTime accepts RFC 3339 timestamps, plain dates and unix milliseconds.
func parseTime(r json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(r, &s); err != nil {
		var ms float64
		if err := json.Unmarshal(r, &ms); err != nil {
			return time.Time{}, errors.New("must be a date")
		}

		return time.UnixMilli(int64(ms)).UTC(), nil
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, errors.New("must be a date")
}
