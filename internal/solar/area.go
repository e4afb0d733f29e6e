// Package solar computes rooftop areas and derives generation, savings, and
// environmental-impact estimates from configurable policy assumptions.
package solar

import (
	"math"

	"github.com/RandomVariable1470/suryaverify/internal/geo"
)

// Point3 is a world-space point from an AR tracing session.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PlanarArea returns the area in square meters of the polygon traced by the
// points, projected onto the horizontal plane (X and Z axes; Y is height).
// Shoelace formula; fewer than 3 points yields 0.
func PlanarArea(points []Point3) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		p1 := points[i]
		p2 := points[(i+1)%n]
		sum += p1.X*p2.Z - p2.X*p1.Z
	}
	return math.Abs(sum) / 2
}

// RingAreaSqm returns the area in square meters of a geographic [lon,lat]
// ring, computed by projecting onto the local tangent plane and applying the
// shoelace formula. Both AI detections and ground-truth annotations go
// through this same path so their areas are directly comparable.
func RingAreaSqm(ring [][]float64) float64 {
	if len(ring) < 3 {
		return 0
	}
	pts := geo.ToPlane(ring, geo.RingOrigin(ring))
	return planeArea(pts)
}

func planeArea(pts []geo.PlanePoint) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		p1 := pts[i]
		p2 := pts[(i+1)%n]
		sum += p1.X*p2.Y - p2.X*p1.Y
	}
	return math.Abs(sum) / 2
}
