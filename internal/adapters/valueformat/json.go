// Package valueformat provides the default ports.ValueFormat[any] adapter: plain JSON,
// matching the teacher's own preference for encoding/json over any of the pack's binary
// codecs for on-disk records that a human may need to open directly (cas.Store's
// meta.json).
package valueformat

import "encoding/json"

// JSON implements ports.ValueFormat[any] by marshaling through encoding/json.
type JSON struct{}

// NewJSON constructs a JSON value format.
func NewJSON() JSON { return JSON{} }

// Read decodes data into an any-typed value.
func (JSON) Read(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Write encodes v to JSON.
func (JSON) Write(v any) ([]byte, error) {
	return json.Marshal(v)
}
