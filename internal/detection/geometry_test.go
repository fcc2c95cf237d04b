package detection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pts builds points from x,y pairs
func pts(xy ...float64) []Point {
	points := make([]Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		points = append(points, Point{X: xy[i], Y: xy[i+1]})
	}
	return points
}

func TestGetBbox(t *testing.T) {
	bbox := GetBbox(pts(10, 20, -5, 40, 30, 0))
	assert.Equal(t, BoundingBox{X: -5, Y: 0, W: 35, H: 40}, bbox)

	assert.Equal(t, BoundingBox{X: 3, Y: 4}, GetBbox(pts(3, 4)))
	assert.Equal(t, BoundingBox{}, GetBbox(nil))
}

func TestBoundingBox_Contains(t *testing.T) {
	box := BoundingBox{X: 10, Y: 10, W: 20, H: 5}
	assert.True(t, box.Contains(Point{X: 10, Y: 10}))
	assert.True(t, box.Contains(Point{X: 30, Y: 15}))
	assert.False(t, box.Contains(Point{X: 31, Y: 12}))
	assert.False(t, box.Contains(Point{X: 20, Y: 9}))
}

func TestNormalizePoints(t *testing.T) {
	points := pts(10, 20, 110, 20, 110, 70)
	points[2].Break = true
	bbox := GetBbox(points)

	normalized, normBox := NormalizePoints(points, bbox)

	assert.Equal(t, BoundingBox{W: 200, H: 200}, normBox)
	require.Len(t, normalized, 3)
	assert.Equal(t, Point{X: 0, Y: 0}, normalized[0])
	assert.Equal(t, Point{X: 200, Y: 0}, normalized[1])
	assert.Equal(t, Point{X: 200, Y: 200, Break: true}, normalized[2])

	// input untouched
	assert.Equal(t, 110.0, points[1].X)
}

func TestNormalizePoints_TooSmall(t *testing.T) {
	points := pts(0, 0, 300, 5)
	bbox := GetBbox(points)

	normalized, normBox := NormalizePoints(points, bbox)

	assert.Equal(t, bbox, normBox)
	assert.Equal(t, points, normalized)

	normalized[0].X = 42
	assert.Equal(t, 0.0, points[0].X, "normalized points must not alias the input")
}

func TestTurningAngle(t *testing.T) {
	tests := []struct {
		name             string
		prev, p, next    Point
		want             float64
	}{
		{"straight", Point{X: 0, Y: 0}, Point{X: 10, Y: 0}, Point{X: 20, Y: 0}, 0},
		{"right angle clockwise on screen", Point{X: 0, Y: 0}, Point{X: 10, Y: 0}, Point{X: 10, Y: 10}, 90},
		{"right angle counter clockwise on screen", Point{X: 0, Y: 0}, Point{X: 10, Y: 0}, Point{X: 10, Y: -10}, -90},
		{"45 degrees", Point{X: 0, Y: 0}, Point{X: 10, Y: 0}, Point{X: 20, Y: 10}, 45},
		{"degenerate", Point{X: 5, Y: 5}, Point{X: 5, Y: 5}, Point{X: 10, Y: 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, turningAngle(tt.prev, tt.p, tt.next), 1e-9)
		})
	}
}

func TestAngleBetweenVectors_Range(t *testing.T) {
	// exactly reversed direction lands on +Pi
	assert.InDelta(t, math.Pi, angleBetweenVectors(1, 0, -1, 0), 1e-12)
}
