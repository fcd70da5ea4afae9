package interp

import "weathercore/cache/wire"

// ToWire flattens in into its wire envelope representation. Only the
// baked transform/simplex/value arrays travel over the wire — the
// original projected Points are build-time scaffolding FastEval never
// touches again.
func (in *Interpolator) ToWire() *wire.Interpolator {
	nSimplex := len(in.Simplices)
	flatTransform := make([]float64, 0, nSimplex*6)
	flatSimplices := make([]int32, 0, nSimplex*3)
	for i, s := range in.Simplices {
		t := in.Transform[i]
		flatTransform = append(flatTransform, t[0], t[1], t[2], t[3], t[4], t[5])
		flatSimplices = append(flatSimplices, int32(s[0]), int32(s[1]), int32(s[2]))
	}
	return &wire.Interpolator{
		NDim:         NDim,
		Transform:    flatTransform,
		Simplices:    flatSimplices,
		VertexValues: in.Values,
		GMin:         in.GMin,
		GMax:         in.GMax,
		MissingVal:   in.MissingValue,
	}
}

// FromWire reconstructs an Interpolator from its wire envelope.
func FromWire(w *wire.Interpolator) *Interpolator {
	nSimplex := len(w.Simplices) / 3
	simplices := make([][3]int, nSimplex)
	transform := make([][6]float64, nSimplex)
	for i := 0; i < nSimplex; i++ {
		simplices[i] = [3]int{int(w.Simplices[i*3]), int(w.Simplices[i*3+1]), int(w.Simplices[i*3+2])}
		copy(transform[i][:], w.Transform[i*6:i*6+6])
	}
	return &Interpolator{
		Values:       w.VertexValues,
		Simplices:    simplices,
		Transform:    transform,
		GMin:         w.GMin,
		GMax:         w.GMax,
		MissingValue: w.MissingVal,
	}
}

// wireCodec adapts Encode/Decode to cache.Codec's any-typed signature
// so a TwoTierCache can store Interpolators directly.
type wireCodec struct{}

// Codec is the shared cache.Codec for Interpolator values.
var Codec = wireCodec{}

func (wireCodec) Encode(v any) ([]byte, error) {
	return wire.EncodeInterpolator(v.(*Interpolator).ToWire())
}

func (wireCodec) Decode(data []byte) (any, error) {
	w, err := wire.DecodeInterpolator(data)
	if err != nil {
		return nil, err
	}
	return FromWire(w), nil
}
