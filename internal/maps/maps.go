// Package maps edits JSON documents addressed by dot-delimited paths. It is
// used to apply command line overrides to genesis documents.
package maps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// SetField modifies a JSON-encoded byte slice by updating or inserting a value at the given dot-delimited path.
// Returns the updated JSON-encoded byte slice or an error if unmarshalling, marshaling, or setting the field fails.
func SetField(bz []byte, path string, value interface{}) ([]byte, error) {
	doc, err := decode(bz)
	if err != nil {
		return nil, err
	}

	if err := setOrDeleteNestedField(doc, path, value); err != nil {
		return nil, err
	}

	return json.MarshalIndent(doc, "", "  ")
}

// RemoveField removes a JSON field identified by the path from the provided byte slice and returns the updated JSON or an error.
func RemoveField(bz []byte, path string) ([]byte, error) {
	return SetField(bz, path, nil)
}

// ApplyOverrides applies "path=value" assignments to a JSON document. Each
// value is converted to the type of the field it replaces: numbers stay
// numbers (durations such as "24h" become nanoseconds), booleans stay
// booleans and everything else is stored as a string.
func ApplyOverrides(bz []byte, overrides []string) ([]byte, error) {
	doc, err := decode(bz)
	if err != nil {
		return nil, err
	}

	for _, override := range overrides {
		path, raw, ok := strings.Cut(override, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid override %q: expected path=value", override)
		}
		value, err := coerce(lookup(doc, path), raw)
		if err != nil {
			return nil, fmt.Errorf("invalid override %q: %w", override, err)
		}
		if err := setOrDeleteNestedField(doc, path, value); err != nil {
			return nil, err
		}
	}

	return json.MarshalIndent(doc, "", "  ")
}

func decode(bz []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(bz))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal genesis: %w", err)
	}
	return doc, nil
}

// coerce converts raw to the JSON type of existing.
func coerce(existing interface{}, raw string) (interface{}, error) {
	switch existing.(type) {
	case json.Number:
		if n, err := cast.ToInt64E(raw); err == nil {
			return json.Number(cast.ToString(n)), nil
		}
		if n, err := cast.ToUint64E(raw); err == nil {
			return json.Number(cast.ToString(n)), nil
		}
		d, err := cast.ToDurationE(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is neither a number nor a duration", raw)
		}
		return json.Number(cast.ToString(int64(d))), nil
	case bool:
		return cast.ToBoolE(raw)
	case string:
		return raw, nil
	}

	if b, err := cast.ToBoolE(raw); err == nil && (raw == "true" || raw == "false") {
		return b, nil
	}
	if n, err := cast.ToInt64E(raw); err == nil {
		return json.Number(cast.ToString(n)), nil
	}
	return raw, nil
}

// lookup returns the value at path or nil.
func lookup(doc map[string]interface{}, path string) interface{} {
	var current interface{} = doc
	for _, key := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

// setOrDeleteNestedField modifies a nested field in a map based on a dot-delimited path or deletes it if value is nil.
// Returns an error if the path is invalid or intermediate nodes are not maps.
func setOrDeleteNestedField(doc map[string]interface{}, path string, value interface{}) error {
	keys := strings.Split(path, ".")

	current := doc
	for i, key := range keys {
		// if it's the last key, set the value
		if i == len(keys)-1 {
			if value == nil {
				delete(current, key)
				return nil
			}
			current[key] = value
			return nil
		}

		next, ok := current[key].(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid path: %s is not a map", strings.Join(keys[:i+1], "."))
		}
		current = next
	}
	return nil
}
