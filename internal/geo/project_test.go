package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// delhi is a rooftop-scale reference point used across the projection tests.
var delhi = Coordinate{Lat: 28.6139, Lon: 77.2090}

func delhiFootprint() Footprint {
	return Footprint{Center: delhi, Zoom: 19, PixelWidth: 1280, PixelHeight: 1280}
}

func TestNormalizedBox_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		box     NormalizedBox
		wantErr bool
	}{
		{"valid", NormalizedBox{XMin: 0.1, YMin: 0.2, XMax: 0.4, YMax: 0.5, Confidence: 0.9}, false},
		{"full image", NormalizedBox{XMin: 0, YMin: 0, XMax: 1, YMax: 1, Confidence: 1}, false},
		{"degenerate point", NormalizedBox{XMin: 0.5, YMin: 0.5, XMax: 0.5, YMax: 0.5}, false},
		{"x below zero", NormalizedBox{XMin: -0.01, XMax: 0.5, YMax: 0.5}, true},
		{"x above one", NormalizedBox{XMax: 1.01, YMax: 0.5}, true},
		{"inverted x", NormalizedBox{XMin: 0.6, XMax: 0.4, YMax: 0.5}, true},
		{"inverted y", NormalizedBox{XMax: 0.5, YMin: 0.6, YMax: 0.4}, true},
		{"confidence above one", NormalizedBox{XMax: 0.5, YMax: 0.5, Confidence: 1.5}, true},
		{"confidence below zero", NormalizedBox{XMax: 0.5, YMax: 0.5, Confidence: -0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.box.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFootprint_MetersPerPixel(t *testing.T) {
	t.Parallel()

	// At the equator, zoom 0, one pixel covers the full base resolution.
	eq := Footprint{Center: Coordinate{Lat: 0, Lon: 0}, Zoom: 0}
	assert.InDelta(t, 156543.03392, eq.MetersPerPixel(), 0.001)

	// Delhi at zoom 19 is in the ~0.26 m/px range.
	mpp := delhiFootprint().MetersPerPixel()
	assert.InDelta(t, 156543.03392*math.Cos(28.6139*math.Pi/180)/math.Pow(2, 19), mpp, 1e-9)
	assert.Greater(t, mpp, 0.2)
	assert.Less(t, mpp, 0.3)

	// Higher latitude shrinks ground resolution.
	north := Footprint{Center: Coordinate{Lat: 60, Lon: 0}, Zoom: 19}
	assert.Less(t, north.MetersPerPixel(), mpp)
}

func TestBoxToPolygon_RingShape(t *testing.T) {
	t.Parallel()

	poly, err := BoxToPolygon(NormalizedBox{XMin: 0.3, YMin: 0.3, XMax: 0.5, YMax: 0.5, Confidence: 0.88}, delhiFootprint())
	require.NoError(t, err)

	assert.Equal(t, "Polygon", poly.Type)
	assert.InDelta(t, 0.88, poly.Confidence, 1e-9)

	ring := poly.Ring()
	require.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4], "ring must close on its first point")

	tl, tr, br, bl := ring[0], ring[1], ring[2], ring[3]
	// Top edge shares a latitude, bottom edge shares a latitude, and the top
	// edge is the northern one.
	assert.InDelta(t, tl[1], tr[1], 1e-12)
	assert.InDelta(t, bl[1], br[1], 1e-12)
	assert.Greater(t, tl[1], bl[1])
	// Left edge shares a longitude and sits west of the right edge.
	assert.InDelta(t, tl[0], bl[0], 1e-12)
	assert.Less(t, tl[0], tr[0])
}

func TestBoxToPolygon_FullImageCentroidIsCenter(t *testing.T) {
	t.Parallel()

	fp := delhiFootprint()
	poly, err := BoxToPolygon(NormalizedBox{XMin: 0, YMin: 0, XMax: 1, YMax: 1, Confidence: 1}, fp)
	require.NoError(t, err)

	c := poly.Centroid()
	assert.InDelta(t, fp.Center.Lat, c.Lat, 1e-9)
	assert.InDelta(t, fp.Center.Lon, c.Lon, 1e-9)
}

func TestBoxToPolygon_YAxisFlips(t *testing.T) {
	t.Parallel()

	fp := delhiFootprint()
	// A box entirely in the top half of the image must land north of center.
	top, err := BoxToPolygon(NormalizedBox{XMin: 0.4, YMin: 0.1, XMax: 0.6, YMax: 0.3}, fp)
	require.NoError(t, err)
	for _, pt := range top.Ring() {
		assert.Greater(t, pt[1], fp.Center.Lat)
	}

	bottom, err := BoxToPolygon(NormalizedBox{XMin: 0.4, YMin: 0.7, XMax: 0.6, YMax: 0.9}, fp)
	require.NoError(t, err)
	for _, pt := range bottom.Ring() {
		assert.Less(t, pt[1], fp.Center.Lat)
	}
}

func TestBoxToPolygon_ScaleMatchesFootprint(t *testing.T) {
	t.Parallel()

	fp := delhiFootprint()
	poly, err := BoxToPolygon(NormalizedBox{XMin: 0.25, YMin: 0.25, XMax: 0.75, YMax: 0.75}, fp)
	require.NoError(t, err)

	// Half the image in each axis: the ring's north-south extent in meters
	// should be half the footprint height.
	ring := poly.Ring()
	heightDeg := ring[0][1] - ring[3][1]
	heightM := heightDeg * 111320.0
	wantM := 0.5 * float64(fp.PixelHeight) * fp.MetersPerPixel()
	assert.InDelta(t, wantM, heightM, wantM*0.001)
}

func TestBoxToPolygon_InvalidBox(t *testing.T) {
	t.Parallel()

	_, err := BoxToPolygon(NormalizedBox{XMin: 0.8, XMax: 0.2, YMax: 0.5}, delhiFootprint())
	assert.Error(t, err)
}

func TestBoxesToPolygons(t *testing.T) {
	t.Parallel()

	fp := delhiFootprint()
	boxes := []NormalizedBox{
		{XMin: 0.1, YMin: 0.1, XMax: 0.2, YMax: 0.2, Confidence: 0.9},
		{XMin: 0.6, YMin: 0.6, XMax: 0.8, YMax: 0.8, Confidence: 0.7},
	}

	polys, err := BoxesToPolygons(boxes, fp)
	require.NoError(t, err)
	require.Len(t, polys, 2)
	assert.InDelta(t, 0.9, polys[0].Confidence, 1e-9)
	assert.InDelta(t, 0.7, polys[1].Confidence, 1e-9)

	// Empty input is a valid no-detections result.
	polys, err = BoxesToPolygons(nil, fp)
	require.NoError(t, err)
	assert.Empty(t, polys)

	// One bad box fails the whole projection.
	_, err = BoxesToPolygons([]NormalizedBox{{XMin: -1, XMax: 0.5, YMax: 0.5}}, fp)
	assert.Error(t, err)
}

func TestGeoPolygon_Geom(t *testing.T) {
	t.Parallel()

	poly, err := BoxToPolygon(NormalizedBox{XMin: 0.3, YMin: 0.3, XMax: 0.5, YMax: 0.5}, delhiFootprint())
	require.NoError(t, err)

	g := poly.Geom()
	require.NotNil(t, g)
	assert.Equal(t, 1, g.NumLinearRings())
	assert.Equal(t, 5, g.LinearRing(0).NumCoords())
}
