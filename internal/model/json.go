package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSON is an arbitrary JSON value kept in its encoded form. SQL drivers store
// it as text (jsonb on postgres) and the mongo driver stores it as native BSON.
type JSON []byte

func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}

	return j, nil
}

func (j *JSON) UnmarshalJSON(b []byte) error {
	if j == nil {
		return errors.New("model.JSON: UnmarshalJSON on nil pointer")
	}

	*j = append((*j)[0:0], b...)
	return nil
}

// Value implements the driver.Valuer interface.
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}

	if !json.Valid(j) {
		return nil, fmt.Errorf("invalid json value, %q", string(j))
	}

	return string(j), nil
}

// Scan implements the sql.Scanner interface.
func (j *JSON) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = bytes.Clone(v)
	case string:
		*j = JSON(v)
	default:
		return fmt.Errorf("failed to scan JSON, %v", value)
	}

	return nil
}

func (JSON) GormDataType() string {
	return "json"
}

func (JSON) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "jsonb"
	default:
		return "text"
	}
}

// MarshalBSONValue implements bson.ValueMarshaler.
func (j JSON) MarshalBSONValue() (byte, []byte, error) {
	var v any
	if len(j) > 0 {
		if err := json.Unmarshal(j, &v); err != nil {
			return 0, nil, err
		}
	}

	t, data, err := bson.MarshalValue(v)
	return byte(t), data, err
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler. The value is rendered
// as relaxed extended JSON, which is plain JSON for the types MarshalBSONValue
// produces.
func (j *JSON) UnmarshalBSONValue(t byte, data []byte) error {
	if bson.Type(t) == bson.TypeNull {
		*j = nil
		return nil
	}

	doc, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: bson.RawValue{Type: bson.Type(t), Value: data}}}, false, false)
	if err != nil {
		return err
	}

	var wrapped struct {
		V json.RawMessage `json:"v"`
	}

	if err := json.Unmarshal(doc, &wrapped); err != nil {
		return err
	}

	*j = JSON(wrapped.V)
	return nil
}

// Decode unmarshals the stored value into v.
func (j JSON) Decode(v any) error {
	return json.Unmarshal(j, v)
}

// MustJSON encodes v and panics on failure. Only used for literals.
func MustJSON(v any) JSON {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return b
}
