// Package codec wraps the JSON encoding used for component data and world
// state snapshots.
package codec

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// Decode unmarshals bz into a value of type T.
func Decode[T any](bz []byte) (T, error) {
	value := new(T)
	err := json.Unmarshal(bz, value)
	if err != nil {
		return *value, eris.Wrap(err, "failed to decode value")
	}
	return *value, nil
}

// Encode marshals a value to JSON.
func Encode(value any) ([]byte, error) {
	bz, err := json.Marshal(value)
	if err != nil {
		return nil, eris.Wrap(err, "failed to encode value")
	}
	return bz, nil
}

// EncodeIndent marshals a value to indented JSON, for human inspection.
func EncodeIndent(value any) ([]byte, error) {
	bz, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "failed to encode value")
	}
	return bz, nil
}
