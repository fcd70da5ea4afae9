package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToWireFromWire_RoundTripsEvaluableInterpolator(t *testing.T) {
	lons, lats, values := gridSamples()
	in, err := Build(lons, lats, values, -9999, 1)
	require.NoError(t, err)

	w := in.ToWire()
	out := FromWire(w)

	assert.Equal(t, in.Simplices, out.Simplices)
	assert.Equal(t, in.Transform, out.Transform)
	assert.Equal(t, in.Values, out.Values)
	assert.Equal(t, in.GMin, out.GMin)
	assert.Equal(t, in.GMax, out.GMax)

	x, y := WebMercator(2, 3)
	want, wantOk := in.Eval(Point{X: x, Y: y})
	got, gotOk := out.Eval(Point{X: x, Y: y})
	assert.Equal(t, wantOk, gotOk)
	assert.InDelta(t, want, got, 1e-9)
}

func TestCodec_EncodeDecodeRoundTrips(t *testing.T) {
	lons, lats, values := gridSamples()
	in, err := Build(lons, lats, values, -9999, 1)
	require.NoError(t, err)

	data, err := Codec.Encode(in)
	require.NoError(t, err)

	decoded, err := Codec.Decode(data)
	require.NoError(t, err)
	out := decoded.(*Interpolator)

	assert.Equal(t, in.Simplices, out.Simplices)
	assert.Equal(t, in.Values, out.Values)
}
