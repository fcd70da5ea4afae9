// Package pointeval implements PointEvaluator (spec.md §4.11):
// evaluating a scattered grid at an arbitrary lon/lat by
// inverse-distance weighting over its k=4 nearest samples. The
// distance metric and weighting formula are carried over verbatim
// from
// _examples/original_source/tile_renderers/gfs_render/model_service.py's
// find_nearest_grid_indices/bilinear_from_indices: squared planar
// distance in degrees (not haversine — the original never projects
// for point queries), weight = 1/(dist+1e-9).
package pointeval

import (
	"math"
	"sort"

	"weathercore/errs"
)

// K is the number of nearest neighbors point queries blend.
const K = 4

// Sample is one scattered grid observation.
type Sample struct {
	Lat, Lon, Value float64
}

// Evaluate returns the inverse-distance-weighted value at
// (targetLat, targetLon) over the K nearest finite samples. targetLon
// is wrapped to [0, 360) to match the native GRIB longitude
// convention before distances are computed (spec.md §4.11 step 1).
func Evaluate(samples []Sample, targetLat, targetLon float64) (float64, error) {
	targetLon = wrapLon0360(targetLon)

	type ranked struct {
		dist float64
		val  float64
	}

	ranked_ := make([]ranked, 0, len(samples))
	for _, s := range samples {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			continue
		}
		dLat := s.Lat - targetLat
		dLon := s.Lon - targetLon
		d2 := dLat*dLat + dLon*dLon
		ranked_ = append(ranked_, ranked{dist: math.Sqrt(d2), val: s.Value})
	}
	if len(ranked_) == 0 {
		return 0, &errs.InsufficientData{ValidPoints: 0}
	}

	sort.Slice(ranked_, func(i, j int) bool { return ranked_[i].dist < ranked_[j].dist })

	k := K
	if k > len(ranked_) {
		k = len(ranked_)
	}
	nearest := ranked_[:k]

	var totalWeight, weightedSum float64
	for _, n := range nearest {
		w := 1.0 / (n.dist + 1e-9)
		weightedSum += w * n.val
		totalWeight += w
	}
	if totalWeight < 1e-14 {
		return nearest[0].val, nil
	}
	return weightedSum / totalWeight, nil
}

// wrapLon0360 maps a longitude in [-180, 180] into [0, 360).
func wrapLon0360(lon float64) float64 {
	if lon < 0 {
		return lon + 360.0
	}
	return lon
}
