package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-12

func TestProject_OriginOnEquator(t *testing.T) {
	p := Project(Coordinate{Longitude: 0, Latitude: 0}, MarkerRadius)
	assert.InDelta(t, MarkerRadius, p.X, eps)
	assert.InDelta(t, 0, p.Y, eps)
	assert.InDelta(t, 0, p.Z, eps)
}

func TestProject_NorthPoleIgnoresLongitude(t *testing.T) {
	for _, lon := range []float64{-180, -74.006, 0, 55.27, 139.69, 180} {
		p := Project(Coordinate{Longitude: lon, Latitude: 90}, 3)
		assert.InDelta(t, 0, p.X, eps, "lon %v", lon)
		assert.InDelta(t, 3, p.Y, eps, "lon %v", lon)
		assert.InDelta(t, 0, p.Z, eps, "lon %v", lon)
	}
}

func TestProject_Deterministic(t *testing.T) {
	c := Coordinate{Longitude: -46.6333, Latitude: -23.5505}
	a := Project(c, GlobeRadius)
	b := Project(c, GlobeRadius)
	assert.Equal(t, math.Float64bits(a.X), math.Float64bits(b.X))
	assert.Equal(t, math.Float64bits(a.Y), math.Float64bits(b.Y))
	assert.Equal(t, math.Float64bits(a.Z), math.Float64bits(b.Z))
}

func TestProject_LiesOnSphere(t *testing.T) {
	coords := []Coordinate{
		{-74.006, 40.7128},
		{-0.1276, 51.5074},
		{139.6917, 35.6895},
		{151.2093, -33.8688},
		{3.3792, 6.5244},
	}
	for _, c := range coords {
		p := Project(c, MarkerRadius)
		r := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
		assert.InDelta(t, MarkerRadius, r, 1e-9)
	}
}

func TestProject_QuarterTurnEast(t *testing.T) {
	p := Project(Coordinate{Longitude: 90, Latitude: 0}, 1)
	assert.InDelta(t, 0, p.X, eps)
	assert.InDelta(t, 1, p.Z, eps)
}

func TestProject_ClampsOutOfRange(t *testing.T) {
	over := Project(Coordinate{Longitude: 12, Latitude: 120}, 2)
	pole := Project(Coordinate{Longitude: 12, Latitude: 90}, 2)
	assert.Equal(t, pole, over)

	west := Project(Coordinate{Longitude: -400, Latitude: 10}, 2)
	edge := Project(Coordinate{Longitude: -180, Latitude: 10}, 2)
	assert.Equal(t, edge, west)
}

func TestClamp_NaN(t *testing.T) {
	c := Coordinate{Longitude: math.NaN(), Latitude: math.NaN()}.Clamp()
	assert.Equal(t, Coordinate{}, c)
}

func TestCoordinate_InRange(t *testing.T) {
	assert.True(t, Coordinate{180, -90}.InRange())
	assert.False(t, Coordinate{180.1, 0}.InRange())
	assert.False(t, Coordinate{0, -90.5}.InRange())
}

func TestPoint_Array(t *testing.T) {
	assert.Equal(t, [3]float64{1, 2, 3}, Point{1, 2, 3}.Array())
}
