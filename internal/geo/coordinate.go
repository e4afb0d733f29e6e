// Package geo converts between normalized image space, local planar meters,
// and geographic coordinates for satellite imagery footprints.
package geo

import (
	"github.com/rotisserie/eris"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is an inclusive lat/lon box used to restrict the operating domain.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// IndiaBounds covers continental India, the operating domain of the
// verification scheme. Longitude math degrades toward the poles
// (cos(lat) -> 0), so inputs are bounded well away from them.
var IndiaBounds = Bounds{MinLat: 8, MaxLat: 37, MinLon: 68, MaxLon: 97}

// Validate rejects coordinates outside the given bounds. Out-of-domain input
// is an error, never clamped.
func (c Coordinate) Validate(b Bounds) error {
	if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return eris.Errorf("geo: coordinate %.6f,%.6f is not a valid lat/lon pair", c.Lat, c.Lon)
	}
	if c.Lat < b.MinLat || c.Lat > b.MaxLat || c.Lon < b.MinLon || c.Lon > b.MaxLon {
		return eris.Errorf("geo: coordinate %.6f,%.6f is outside the operating domain (lat %.0f..%.0f, lon %.0f..%.0f)",
			c.Lat, c.Lon, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
	}
	return nil
}

// IsZero reports whether the coordinate is the 0,0 placeholder used for
// uploads with no location metadata.
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lon == 0
}
