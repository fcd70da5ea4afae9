package color

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignColormap_KeywordRouting(t *testing.T) {
	assert.Equal(t, "rainbow", AssignColormap("Precipitation rate").Name)
	assert.Equal(t, "jet", AssignColormap("2 metre temperature").Name)
	assert.Equal(t, "hsv", AssignColormap("Wind direction").Name)
	assert.Equal(t, "viridis", AssignColormap("10 metre U wind component").Name)
	assert.Equal(t, "YlGnBu", AssignColormap("2 metre relative humidity").Name)
	assert.Equal(t, "plasma", AssignColormap("Pressure reduced to MSL").Name)
	assert.Equal(t, "twilight", AssignColormap("Total Cloud Cover").Name)
	assert.Equal(t, "viridis", AssignColormap("Some unknown parameter").Name)
}

func TestZeroClip_PrecipitationLikeParameters(t *testing.T) {
	assert.True(t, ZeroClip("Precipitation rate"))
	assert.True(t, ZeroClip("Total Cloud Cover"))
	assert.False(t, ZeroClip("2 metre temperature"))
}

func TestColorize_NaNGetsAlphaZero(t *testing.T) {
	values := []float64{math.NaN(), 50}
	out := Colorize(values, nil, 0, 100, -9999, "2 metre temperature")
	assert.Equal(t, byte(0), out[3])
	assert.Equal(t, byte(255), out[7])
}

func TestColorize_MissingValueGetsAlphaZero(t *testing.T) {
	values := []float64{-9999, 50}
	out := Colorize(values, nil, 0, 100, -9999, "2 metre temperature")
	assert.Equal(t, byte(0), out[3])
}

func TestColorize_FalseOkGetsAlphaZero(t *testing.T) {
	values := []float64{50, 50}
	ok := []bool{false, true}
	out := Colorize(values, ok, 0, 100, -9999, "2 metre temperature")
	assert.Equal(t, byte(0), out[3])
	assert.Equal(t, byte(255), out[7])
}

func TestColorize_ZeroClipHidesNearZeroValues(t *testing.T) {
	values := []float64{0.5, 50}
	out := Colorize(values, nil, 0, 100, -9999, "Precipitation rate")
	assert.Equal(t, byte(0), out[3], "below the zero-clip threshold should be transparent")
	assert.Equal(t, byte(255), out[7])
}

func TestColorize_ConstantSpanDoesNotDivideByZero(t *testing.T) {
	values := []float64{5}
	out := Colorize(values, nil, 5, 5, -9999, "2 metre temperature")
	assert.Equal(t, byte(255), out[3])
}

func TestColormap_SampleClampsAtEndpoints(t *testing.T) {
	r, g, b := Jet.Sample(-1)
	r0, g0, b0 := Jet.Stops[0].R, Jet.Stops[0].G, Jet.Stops[0].B
	assert.Equal(t, r0, r)
	assert.Equal(t, g0, g)
	assert.Equal(t, b0, b)

	last := Jet.Stops[len(Jet.Stops)-1]
	r, g, b = Jet.Sample(2)
	assert.Equal(t, last.R, r)
	assert.Equal(t, last.G, g)
	assert.Equal(t, last.B, b)
}
