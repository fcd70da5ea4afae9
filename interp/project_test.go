package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebMercator_OriginMapsToZero(t *testing.T) {
	x, y := WebMercator(0, 0)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
}

func TestWebMercator_ClampsExtremeLatitude(t *testing.T) {
	_, yNorth := WebMercator(0, 89)
	_, yClamped := WebMercator(0, maxWebMercatorLat)
	assert.InDelta(t, yClamped, yNorth, 1e-6)
}

func TestWebMercatorRoundTrip(t *testing.T) {
	x, y := WebMercator(-73.5, 40.7)
	lon, lat := InverseWebMercator(x, y)
	assert.InDelta(t, -73.5, lon, 1e-6)
	assert.InDelta(t, 40.7, lat, 1e-6)
}
