package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONDoc stores a structured document in a jsonb column.
type JSONDoc map[string]any

// Value marshals the document for storage.
func (d JSONDoc) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("jsondoc: marshal: %w", err)
	}
	return string(raw), nil
}

// Scan decodes a stored document.
func (d *JSONDoc) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("jsondoc: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*d = nil
		return nil
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("jsondoc: unmarshal: %w", err)
	}
	*d = decoded
	return nil
}
