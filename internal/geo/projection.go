package geo

import "math"

const (
	// GlobeRadius is the radius of the rendered sphere mesh.
	GlobeRadius = 2.0
	// MarkerRadius keeps markers just above the sphere surface to avoid z-fighting.
	MarkerRadius = 2.1
)

// Coordinate is a WGS84-style longitude/latitude pair in degrees. No datum correction.
type Coordinate struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Point is a position in the globe's 3D scene space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Array returns the point as [x, y, z].
func (p Point) Array() [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

// InRange reports whether the coordinate lies within [-180,180] x [-90,90].
func (c Coordinate) InRange() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Clamp pins latitude to [-90, 90] and longitude to [-180, 180]. NaN becomes 0.
func (c Coordinate) Clamp() Coordinate {
	return Coordinate{
		Longitude: clamp(c.Longitude, -180, 180),
		Latitude:  clamp(c.Latitude, -90, 90),
	}
}

// Project maps c onto the surface of a sphere of the given radius, centred on
// the origin with +Y through the north pole. Out-of-range input is clamped.
func Project(c Coordinate, radius float64) Point {
	c = c.Clamp()
	lat := c.Latitude * math.Pi / 180
	lon := c.Longitude * math.Pi / 180
	cosLat := math.Cos(lat)
	return Point{
		X: radius * cosLat * math.Cos(lon),
		Y: radius * math.Sin(lat),
		Z: radius * cosLat * math.Sin(lon),
	}
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
