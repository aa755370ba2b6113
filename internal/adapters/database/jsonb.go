package database

import (
	"database/sql"
	"encoding/json"
)

// jsonbOrNull marshals v for a JSONB column. Empty slices map to NULL so an
// absent list never overwrites stored data with [].
func jsonbOrNull(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" || string(b) == "[]" {
		return nil, nil
	}
	return string(b), nil
}

// scanJSONB unmarshals a nullable JSONB column into out. NULL leaves out
// untouched.
func scanJSONB(raw []byte, out interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
