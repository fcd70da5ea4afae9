package interp

import "math"

const earthRadiusMeters = 6378137.0

// maxWebMercatorLat is the latitude at which Web Mercator's y
// coordinate would diverge; input is clamped to it same as every
// standard slippy-map projection (spec.md §4.7).
const maxWebMercatorLat = 85.05112878

// WebMercator projects (lon, lat) in degrees to EPSG:3857 meters.
func WebMercator(lon, lat float64) (x, y float64) {
	lat = math.Max(math.Min(lat, maxWebMercatorLat), -maxWebMercatorLat)
	x = earthRadiusMeters * lon * math.Pi / 180
	y = earthRadiusMeters * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

// InverseWebMercator recovers (lon, lat) in degrees from EPSG:3857 x/y.
func InverseWebMercator(x, y float64) (lon, lat float64) {
	lon = x / earthRadiusMeters * 180 / math.Pi
	lat = (2*math.Atan(math.Exp(y/earthRadiusMeters)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}
