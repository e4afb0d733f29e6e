package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinate_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		coord   Coordinate
		wantErr bool
	}{
		{"delhi", Coordinate{Lat: 28.6139, Lon: 77.2090}, false},
		{"chennai", Coordinate{Lat: 13.0827, Lon: 80.2707}, false},
		{"south boundary", Coordinate{Lat: 8, Lon: 77}, false},
		{"north boundary", Coordinate{Lat: 37, Lon: 77}, false},
		{"just south of domain", Coordinate{Lat: 7.99, Lon: 77}, true},
		{"london", Coordinate{Lat: 51.5, Lon: -0.12}, true},
		{"lat out of range", Coordinate{Lat: 91, Lon: 77}, true},
		{"lon out of range", Coordinate{Lat: 20, Lon: 181}, true},
		{"zero placeholder", Coordinate{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.coord.Validate(IndiaBounds)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCoordinate_IsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, Coordinate{}.IsZero())
	assert.False(t, Coordinate{Lat: 28.6, Lon: 77.2}.IsZero())
	assert.False(t, Coordinate{Lat: 0, Lon: 77.2}.IsZero())
}

func TestToPlane(t *testing.T) {
	t.Parallel()

	origin := Coordinate{Lat: 28.6139, Lon: 77.2090}

	// One degree of latitude north of origin is 111320 meters north.
	pts := ToPlane([][]float64{{origin.Lon, origin.Lat + 1}}, origin)
	assert.InDelta(t, 0, pts[0].X, 1e-6)
	assert.InDelta(t, 111320, pts[0].Y, 1e-6)

	// Longitude scales by cos(lat).
	pts = ToPlane([][]float64{{origin.Lon + 1, origin.Lat}}, origin)
	assert.InDelta(t, 111320*0.87796, pts[0].X, 50)
	assert.InDelta(t, 0, pts[0].Y, 1e-6)

	// The origin maps to the plane origin.
	pts = ToPlane([][]float64{{origin.Lon, origin.Lat}}, origin)
	assert.InDelta(t, 0, pts[0].X, 1e-9)
	assert.InDelta(t, 0, pts[0].Y, 1e-9)
}

func TestRingOrigin(t *testing.T) {
	t.Parallel()

	o := RingOrigin(nil, [][]float64{{77.2, 28.6}, {77.3, 28.7}})
	assert.InDelta(t, 28.6, o.Lat, 1e-9)
	assert.InDelta(t, 77.2, o.Lon, 1e-9)

	assert.True(t, RingOrigin().IsZero())
	assert.True(t, RingOrigin(nil, nil).IsZero())
}
