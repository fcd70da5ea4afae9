// Package tiles implements TileGridBuilder (spec.md §4.9): turning a
// z/x/y slippy-map tile address into a regular mesh of query points in
// projected space, ready for an Interpolator to evaluate.
package tiles

import (
	"math"

	"weathercore/errs"
	"weathercore/interp"
)

// TileSize is the pixel width/height of a rendered (cropped) tile.
const TileSize = 256

// Oversize is the query-mesh width/height actually evaluated per tile
// (spec.md §4.9): one extra row/column of padding beyond TileSize so
// Delaunay seam artifacts at a tile's far edges land in the cropped-off
// margin instead of in the visible raster.
const Oversize = 257

// originShift is half the circumference of the Web Mercator world
// square in meters.
const originShift = math.Pi * 6378137.0

// Bounds is a tile's extent in Web Mercator meters.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// TileBounds computes the Web Mercator bounds of tile z/x/y under the
// standard XYZ slippy-map scheme, rejecting out-of-range coordinates.
func TileBounds(z, x, y int) (Bounds, error) {
	if z < 0 {
		return Bounds{}, &errs.InvalidCoords{Z: z, X: x, Y: y}
	}
	n := 1 << uint(z)
	if x < 0 || y < 0 || x >= n || y >= n {
		return Bounds{}, &errs.InvalidCoords{Z: z, X: x, Y: y}
	}

	tileExtent := 2 * originShift / float64(n)
	minX := -originShift + float64(x)*tileExtent
	maxX := minX + tileExtent
	maxY := originShift - float64(y)*tileExtent
	minY := maxY - tileExtent
	return Bounds{minX, minY, maxX, maxY}, nil
}

// Grid is an Oversize x Oversize mesh of pixel-centered query points in
// projected space, stored row-major starting from the tile's top-left.
// Evaluating the full Oversize mesh and cropping to TileSize afterward
// (see Crop) keeps triangulation seam artifacts near the tile's far
// edges out of the visible raster (spec.md §4.9, §4.12 step 5).
type Grid struct {
	Points []interp.Point
}

// BuildGrid generates the Oversize x Oversize query grid for tile z/x/y.
func BuildGrid(z, x, y int) (*Grid, error) {
	b, err := TileBounds(z, x, y)
	if err != nil {
		return nil, err
	}

	dx := (b.MaxX - b.MinX) / TileSize
	dy := (b.MaxY - b.MinY) / TileSize

	pts := make([]interp.Point, 0, Oversize*Oversize)
	for row := 0; row < Oversize; row++ {
		py := b.MaxY - (float64(row)+0.5)*dy
		for col := 0; col < Oversize; col++ {
			px := b.MinX + (float64(col)+0.5)*dx
			pts = append(pts, interp.Point{X: px, Y: py})
		}
	}
	return &Grid{Points: pts}, nil
}

// Crop discards the oversize mesh's extra trailing row/column,
// reducing a row-major Oversize x Oversize buffer of stride bytesPerCell
// down to TileSize x TileSize.
func Crop(buf []byte, bytesPerCell int) []byte {
	out := make([]byte, TileSize*TileSize*bytesPerCell)
	rowBytes := TileSize * bytesPerCell
	srcRowBytes := Oversize * bytesPerCell
	for row := 0; row < TileSize; row++ {
		copy(out[row*rowBytes:(row+1)*rowBytes], buf[row*srcRowBytes:row*srcRowBytes+rowBytes])
	}
	return out
}
