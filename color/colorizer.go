package color

import (
	"math"
	"strings"
)

// ZeroClipThreshold is the normalized-value cutoff below which
// zero-clipped parameters render fully transparent, matching the
// reference renderer's 0.02 hard alpha cutoff (map_colors.py's
// colorize_grid).
const ZeroClipThreshold = 0.02

// AssignColormap picks a colormap by keyword match against paramName,
// mirroring map_colors.py's assign_color_map rule order exactly
// (precipitation-like fields before temperature before direction, and
// so on), falling back to viridis.
func AssignColormap(paramName string) Colormap {
	lower := strings.ToLower(paramName)
	switch {
	case containsAny(lower, "precipitation", "rain", "snow", "graupel", "mixing", "reflectivity"):
		return Rainbow
	case strings.Contains(lower, "temperature"):
		return Jet
	case strings.Contains(lower, "direction"):
		return HSV
	case strings.Contains(lower, "wind"):
		return Viridis
	case strings.Contains(lower, "humidity"):
		return YlGnBu
	case containsAny(lower, "pressure", "height", "vorticity"):
		return Plasma
	case strings.Contains(lower, "cloud"):
		return Twilight
	default:
		return Viridis
	}
}

// ZeroClip reports whether paramName belongs to the set of
// precipitation-like parameters that get a hard near-zero alpha
// cutoff (map_colors.py's zero_clip).
func ZeroClip(paramName string) bool {
	lower := strings.ToLower(paramName)
	return containsAny(lower, "cloud", "precipitation", "rain", "snow", "graupel", "mixing", "reflectivity")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Colorize renders values into a row-major RGBA8 raster (4 bytes per
// pixel). ok marks which values came from a successful FastEval hull
// hit (spec.md §4.8); values with ok[i] == false, equal to
// missingValue, or NaN always get alpha 0 (spec.md §8's "NaN ->
// alpha=0" property). For zero-clip parameters, normalized values
// below ZeroClipThreshold are also forced transparent so the
// near-zero color doesn't halo the true zero contour.
func Colorize(values []float64, ok []bool, gmin, gmax, missingValue float64, paramName string) []byte {
	cmap := AssignColormap(paramName)
	clip := ZeroClip(paramName)
	span := gmax - gmin

	out := make([]byte, 4*len(values))
	for i, v := range values {
		o := i * 4
		if (ok != nil && !ok[i]) || math.IsNaN(v) || v == missingValue {
			continue
		}

		t := 0.0
		if span > 0 {
			t = (v - gmin) / span
		}
		t = math.Max(0, math.Min(1, t))

		r, g, b := cmap.Sample(t)
		alpha := byte(255)
		if clip && t < ZeroClipThreshold {
			alpha = 0
		}
		out[o], out[o+1], out[o+2], out[o+3] = r, g, b, alpha
	}
	return out
}
