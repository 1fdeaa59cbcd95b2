package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FieldValues holds a record's dynamic custom-column values, persisted as
// JSONB keyed by column name.
type FieldValues map[string]any

// Value marshals the map into JSON for Postgres.
func (f FieldValues) Value() (driver.Value, error) {
	if f == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the map.
func (f *FieldValues) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("field values: unsupported scan type %T", value)
	}

	result := make(FieldValues)
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*f = result
	return nil
}
