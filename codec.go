package saveslot

import "encoding/json"

// Codec converts typed values to and from the opaque strings the cache
// stores. The engine never inspects these strings; on disk they become the
// values of the outer JSON object, which is why saved bodies appear
// double-encoded.
type Codec interface {
	// Serialize renders a value as a string.
	Serialize(v any) (string, error)

	// Deserialize parses a string produced by Serialize into v,
	// which must be a pointer.
	Deserialize(s string, v any) error
}

// JSONCodec is the default [Codec], encoding values as JSON.
type JSONCodec struct{}

func (JSONCodec) Serialize(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (JSONCodec) Deserialize(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}

// Compile-time interface check.
var _ Codec = JSONCodec{}
