package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// member is one key/value pair of a JSON object, kept in document order
type member struct {
	Key   string
	Value json.RawMessage
}

// errNotObject is returned by decodeMembers when the input is not a JSON object
var errNotObject = errors.New("not a JSON object")

// decodeMembers splits a JSON object into its members without losing key order.
// encoding/json maps are unordered, so the object is walked token by token.
func decodeMembers(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotObject
	}

	members := make([]member, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errNotObject
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		members = append(members, member{Key: key, Value: value})
	}

	// Closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	// Nothing may follow the object
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON object")
	}

	return members, nil
}

// lookup returns the last value stored under key, matching encoding/json semantics.
func lookup(members []member, key string) json.RawMessage {
	var found json.RawMessage
	for _, m := range members {
		if m.Key == key {
			found = m.Value
		}
	}
	return found
}

// isNull reports whether raw is absent or the JSON null literal
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
