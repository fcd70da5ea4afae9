package cache

// Codec converts a cached value to and from the opaque blob KVCache
// stores. TwoTierCache never interprets blob contents itself — the
// caller supplies the codec for the value kind it's storing (an
// Interpolator's binary wire format, a JSON-encoded min/max pair,
// etc.), matching spec.md §4.1's "the adapter does not interpret
// contents; the Orchestrator chooses a serialization."
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// CodecFunc adapts two plain functions into a Codec.
type CodecFunc struct {
	EncodeFn func(v any) ([]byte, error)
	DecodeFn func(data []byte) (any, error)
}

func (c CodecFunc) Encode(v any) ([]byte, error)    { return c.EncodeFn(v) }
func (c CodecFunc) Decode(data []byte) (any, error) { return c.DecodeFn(data) }
