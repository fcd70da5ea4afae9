package interp

import "math"

// Point is a 2D coordinate in projected (Web Mercator) space.
type Point struct{ X, Y float64 }

type triangle struct {
	A, B, C int
}

// Triangulate computes a Delaunay triangulation of pts with the
// Bowyer-Watson incremental algorithm. Nothing in the retrieved corpus
// or the common Go ecosystem exposes the exact
// simplices/transform/findSimplex contract FastEval needs (see
// DESIGN.md) — this is a textbook algorithm with no natural
// third-party home.
func Triangulate(pts []Point) [][3]int {
	n := len(pts)
	if n < 3 {
		return nil
	}

	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	deltaMax := math.Max(maxX-minX, maxY-minY)
	if deltaMax == 0 {
		deltaMax = 1
	}
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	super := []Point{
		{midX - 20*deltaMax, midY - deltaMax},
		{midX, midY + 20*deltaMax},
		{midX + 20*deltaMax, midY - deltaMax},
	}
	all := make([]Point, 0, n+3)
	all = append(all, pts...)
	all = append(all, super...)
	superA, superB, superC := n, n+1, n+2

	tris := []triangle{{superA, superB, superC}}

	type edge struct{ u, v int }

	for i := 0; i < n; i++ {
		p := all[i]

		var bad []triangle
		badSet := make(map[triangle]bool)
		var kept []triangle
		for _, t := range tris {
			if inCircumcircle(p, all[t.A], all[t.B], all[t.C]) {
				bad = append(bad, t)
				badSet[t] = true
			} else {
				kept = append(kept, t)
			}
		}
		tris = kept

		edgeCount := make(map[edge]int)
		addEdge := func(u, v int) {
			if u > v {
				u, v = v, u
			}
			edgeCount[edge{u, v}]++
		}
		for _, t := range bad {
			addEdge(t.A, t.B)
			addEdge(t.B, t.C)
			addEdge(t.C, t.A)
		}

		for e, count := range edgeCount {
			if count == 1 {
				tris = append(tris, triangle{e.u, e.v, i})
			}
		}
	}

	out := make([][3]int, 0, len(tris))
	for _, t := range tris {
		if t.A >= n || t.B >= n || t.C >= n {
			continue
		}
		out = append(out, [3]int{t.A, t.B, t.C})
	}
	return out
}

// inCircumcircle reports whether p lies inside the circumcircle of
// triangle a,b,c, using the standard determinant test with an
// orientation correction so the result doesn't depend on winding.
func inCircumcircle(p, a, b, c Point) bool {
	ax, ay := a.X-p.X, a.Y-p.Y
	bx, by := b.X-p.X, b.Y-p.Y
	cx, cy := c.X-p.X, c.Y-p.Y

	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)

	orient := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
	if orient > 0 {
		return det > 0
	}
	return det < 0
}
