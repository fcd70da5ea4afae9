// Package interp implements the Interpolator builder and FastEval
// barycentric evaluation kernel (spec.md §4.7, §4.8): projecting a
// scattered GRIB grid into Web Mercator, triangulating it, and
// re-evaluating arbitrary query points against the resulting mesh.
package interp

import (
	"math"

	"weathercore/errs"
)

// NDim is the dimensionality FastEval operates in; everything here is
// a 2D (lon/lat-projected) triangulation.
const NDim = 2

// wrapLon wraps a longitude in degrees to [-180, 180), matching the
// original's `(lons + 180) % 360 - 180` (spec.md §4.7 step 2). Go's
// math.Mod keeps the dividend's sign, unlike Python's %, so the
// remainder is renormalized to stay non-negative before the shift —
// this is required for GFS's native 0..360 longitude convention to
// project correctly instead of landing past the Mercator edge.
func wrapLon(lon float64) float64 {
	m := math.Mod(lon+180, 360)
	if m < 0 {
		m += 360
	}
	return m - 180
}

// antimeridianPad is how many degrees short of ±180 a source point may
// be and still get duplicated on the other side of the seam, so a
// triangle never spans the antimeridian in projected space (spec.md
// §4.7 step 4: "|lon| >= 179°", matching the original's dl_thresh=1.0).
const antimeridianPad = 1.0

// Interpolator is a triangulated scalar field ready for point
// evaluation. Transform follows the scipy.spatial.Delaunay convention
// (and cache/wire's envelope shape): per simplex, a flattened 2x2
// inverse transform matrix followed by the reference vertex (r),
// packed as [Tinv00, Tinv01, Tinv10, Tinv11, r.X, r.Y].
type Interpolator struct {
	Points       []Point
	Values       []float64
	Simplices    [][3]int
	Transform    [][6]float64
	GMin, GMax   float64
	MissingValue float64
}

// Build constructs an Interpolator from parallel lon/lat/value arrays,
// which are first flattened (by the caller) then strided by
// decimation (spec.md §4.7 step 3; decimation < 1 is treated as 1).
// Non-finite and missing-value samples are dropped before
// triangulation; points within antimeridianPad degrees of ±180 are
// duplicated on the opposite side so tiles crossing the dateline
// render continuously (spec.md §4.7, §8 dateline-continuity scenario).
func Build(lons, lats, values []float64, missingValue float64, decimation int) (*Interpolator, error) {
	if decimation < 1 {
		decimation = 1
	}

	type sample struct{ lon, lat, val float64 }

	samples := make([]sample, 0, len(values)/decimation+1)
	for i := 0; i < len(values); i += decimation {
		v := values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) || v == missingValue {
			continue
		}
		samples = append(samples, sample{wrapLon(lons[i]), lats[i], v})
	}
	if len(samples) < 3 {
		return nil, &errs.InsufficientData{ValidPoints: len(samples)}
	}

	var pts []Point
	var vals []float64
	gmin, gmax := math.Inf(1), math.Inf(-1)

	add := func(lon, lat, v float64) {
		x, y := WebMercator(lon, lat)
		pts = append(pts, Point{x, y})
		vals = append(vals, v)
		gmin = math.Min(gmin, v)
		gmax = math.Max(gmax, v)
	}

	for _, s := range samples {
		add(s.lon, s.lat, s.val)
		switch {
		case s.lon <= -180+antimeridianPad:
			add(s.lon+360, s.lat, s.val)
		case s.lon >= 180-antimeridianPad:
			add(s.lon-360, s.lat, s.val)
		}
	}

	simplices := Triangulate(pts)
	if len(simplices) == 0 {
		return nil, &errs.InsufficientData{ValidPoints: len(samples)}
	}

	transforms := make([][6]float64, len(simplices))
	for i, s := range simplices {
		a, b, c := pts[s[0]], pts[s[1]], pts[s[2]]
		t00, t01 := a.X-c.X, b.X-c.X
		t10, t11 := a.Y-c.Y, b.Y-c.Y
		det := t00*t11 - t01*t10
		if det == 0 {
			continue // degenerate; left as a zero transform, which FindSimplex skips
		}
		transforms[i] = [6]float64{t11 / det, -t01 / det, -t10 / det, t00 / det, c.X, c.Y}
	}

	return &Interpolator{
		Points:       pts,
		Values:       vals,
		Simplices:    simplices,
		Transform:    transforms,
		GMin:         gmin,
		GMax:         gmax,
		MissingValue: missingValue,
	}, nil
}

// FindSimplex returns the index of the simplex containing p and its
// barycentric coordinates within that simplex, or (-1, zero) if p
// falls outside the triangulated hull.
func (in *Interpolator) FindSimplex(p Point) (int, [3]float64) {
	const eps = 1e-9
	for i, t := range in.Transform {
		if t[0] == 0 && t[1] == 0 && t[2] == 0 && t[3] == 0 {
			continue // degenerate simplex: no valid inverse transform
		}
		bx := t[0]*(p.X-t[4]) + t[1]*(p.Y-t[5])
		by := t[2]*(p.X-t[4]) + t[3]*(p.Y-t[5])
		bz := 1 - bx - by
		if bx >= -eps && by >= -eps && bz >= -eps {
			return i, [3]float64{bx, by, bz}
		}
	}
	return -1, [3]float64{}
}

// Eval evaluates the field at p via barycentric interpolation over the
// containing simplex. ok is false outside the hull.
func (in *Interpolator) Eval(p Point) (value float64, ok bool) {
	idx, bary := in.FindSimplex(p)
	if idx < 0 {
		return 0, false
	}
	s := in.Simplices[idx]
	return bary[0]*in.Values[s[0]] + bary[1]*in.Values[s[1]] + bary[2]*in.Values[s[2]], true
}

// EvalBatch evaluates many points concurrently across workers,
// preserving input order. Each point is evaluated independently, so
// the chunking strategy has no effect on the result (spec.md §8
// determinism property: identical output regardless of worker count).
func (in *Interpolator) EvalBatch(pts []Point, workers int) ([]float64, []bool) {
	n := len(pts)
	values := make([]float64, n)
	oks := make([]bool, n)
	if n == 0 {
		return values, oks
	}
	if workers <= 0 {
		workers = 1
	}

	chunk := (n + workers - 1) / workers
	var pending int
	done := make(chan struct{}, workers)
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		pending++
		go func(start, end int) {
			for i := start; i < end; i++ {
				values[i], oks[i] = in.Eval(pts[i])
			}
			done <- struct{}{}
		}(start, end)
	}
	for i := 0; i < pending; i++ {
		<-done
	}
	return values, oks
}
