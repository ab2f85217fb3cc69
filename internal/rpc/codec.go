package rpc

import "encoding/json"

// Codec encodes plain Go messages as JSON. It registers under the name
// "json", replacing Connect's protobuf JSON codec, so the standard
// application/json and application/connect+json content types work.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal implements connect.Codec.
func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
