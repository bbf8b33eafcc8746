package postgres

import "encoding/json"

// unmarshalItems decodes a JSONB_AGG column into the given slice, treating
// NULL and empty aggregates as an empty slice rather than nil so handlers
// always render a JSON array.
func unmarshalItems[T any](data []byte, dst *[]T) error {
	if len(data) == 0 || string(data) == "null" || string(data) == "[]" {
		*dst = []T{}
		return nil
	}
	return json.Unmarshal(data, dst)
}
