package geo

import "math"

// PlanePoint is a point in a local tangent plane, in meters east (X) and
// north (Y) of a reference coordinate.
type PlanePoint struct {
	X float64
	Y float64
}

// ToPlane projects a [lon,lat] ring onto the tangent plane at origin using
// equirectangular scaling. Accurate to well under a percent at the rooftop
// scales this tool works with.
func ToPlane(ring [][]float64, origin Coordinate) []PlanePoint {
	cosLat := math.Cos(origin.Lat * math.Pi / 180)
	pts := make([]PlanePoint, 0, len(ring))
	for _, pt := range ring {
		pts = append(pts, PlanePoint{
			X: (pt[0] - origin.Lon) * metersPerDegreeLat * cosLat,
			Y: (pt[1] - origin.Lat) * metersPerDegreeLat,
		})
	}
	return pts
}

// RingOrigin picks a projection origin for a set of rings: the first vertex
// of the first non-empty ring. Using one shared origin keeps areas from
// different rings comparable.
func RingOrigin(rings ...[][]float64) Coordinate {
	for _, r := range rings {
		if len(r) > 0 {
			return Coordinate{Lat: r[0][1], Lon: r[0][0]}
		}
	}
	return Coordinate{}
}
