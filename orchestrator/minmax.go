package orchestrator

import "encoding/json"

// minMax is the running [global min, global max] pair tracked per
// InterpKey so a tile rendered from a later, wider-ranging run doesn't
// suddenly renormalize colors against an older, narrower-ranging one
// (spec.md §4.12's monotone-merge invariant). It's two floats — small
// enough that reaching for a binary/FlatBuffers envelope the way
// Interpolator's wire codec does would be pure ceremony (see
// DESIGN.md); encoding/json is the teacher's own fallback for
// anything this shape-simple.
type minMax struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// merge widens m to cover other, returning whether it actually
// changed (so callers can skip a redundant cache write).
func (m minMax) merge(other minMax) (minMax, bool) {
	widened := m
	changed := false
	if other.Min < widened.Min {
		widened.Min = other.Min
		changed = true
	}
	if other.Max > widened.Max {
		widened.Max = other.Max
		changed = true
	}
	return widened, changed
}

type minMaxCodec struct{}

var minMaxCodecInstance = minMaxCodec{}

func (minMaxCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v.(minMax))
}

func (minMaxCodec) Decode(data []byte) (any, error) {
	var m minMax
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
