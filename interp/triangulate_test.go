package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangulate_FewerThanThreePointsProducesNoSimplices(t *testing.T) {
	assert.Nil(t, Triangulate(nil))
	assert.Nil(t, Triangulate([]Point{{0, 0}}))
	assert.Nil(t, Triangulate([]Point{{0, 0}, {1, 1}}))
}

func TestTriangulate_SquareProducesTwoTriangles(t *testing.T) {
	pts := []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	tris := Triangulate(pts)
	assert.Len(t, tris, 2)
	for _, tri := range tris {
		for _, idx := range tri {
			assert.True(t, idx >= 0 && idx < len(pts))
		}
	}
}

func TestTriangulate_EveryPointParticipatesInAtLeastOneTriangle(t *testing.T) {
	pts := []Point{
		{0, 0}, {2, 0}, {4, 0},
		{0, 2}, {2, 2}, {4, 2},
		{1, 1}, {3, 1},
	}
	tris := Triangulate(pts)
	require.NotEmpty(t, tris)

	used := make(map[int]bool)
	for _, tri := range tris {
		used[tri[0]] = true
		used[tri[1]] = true
		used[tri[2]] = true
	}
	for i := range pts {
		assert.True(t, used[i], "point %d unused by triangulation", i)
	}
}

func TestInCircumcircle_PointInsideCircumcircleOfItsOwnTriangleIsDetectedForAFourthPoint(t *testing.T) {
	a := Point{0, 0}
	b := Point{4, 0}
	c := Point{0, 4}
	center := Point{1, 1} // well inside the circumcircle of a right triangle with legs 4
	outside := Point{100, 100}

	assert.True(t, inCircumcircle(center, a, b, c))
	assert.False(t, inCircumcircle(outside, a, b, c))
}
