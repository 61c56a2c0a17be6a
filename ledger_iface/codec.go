package ledger_iface

import (
	"encoding/json"
)

// JSONCodec lets connect handlers carry plain Go structs instead of generated
// protobuf messages.
type JSONCodec struct{}

// Name implements connect.Codec.
func (c *JSONCodec) Name() string {
	return "json"
}

// Marshal implements connect.Codec.
func (c *JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec.
func (c *JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
