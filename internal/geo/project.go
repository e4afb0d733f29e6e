package geo

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// groundResolutionBase is the Web Mercator ground resolution at the equator
// for zoom 0: 2*pi*6378137 / 256 meters per pixel.
const groundResolutionBase = 156543.03392

// metersPerDegreeLat is the length of one degree of latitude.
const metersPerDegreeLat = 111320.0

// NormalizedBox is an axis-aligned rectangle in image space with coordinates
// scaled to [0,1]. Origin is top-left; y grows downward.
type NormalizedBox struct {
	XMin       float64 `json:"x_min"`
	YMin       float64 `json:"y_min"`
	XMax       float64 `json:"x_max"`
	YMax       float64 `json:"y_max"`
	Confidence float64 `json:"confidence"`
}

// Validate checks the box is inside the unit square with non-inverted edges.
func (b NormalizedBox) Validate() error {
	if b.XMin < 0 || b.YMin < 0 || b.XMax > 1 || b.YMax > 1 {
		return eris.Errorf("geo: box [%g,%g,%g,%g] outside unit square", b.XMin, b.YMin, b.XMax, b.YMax)
	}
	if b.XMin > b.XMax || b.YMin > b.YMax {
		return eris.Errorf("geo: box [%g,%g,%g,%g] has inverted edges", b.XMin, b.YMin, b.XMax, b.YMax)
	}
	if b.Confidence < 0 || b.Confidence > 1 {
		return eris.Errorf("geo: box confidence %g outside [0,1]", b.Confidence)
	}
	return nil
}

// Footprint describes the geographic extent a fetched or uploaded image
// represents. PixelWidth and PixelHeight must be the dimensions of the image
// actually decoded, not the nominal request size: high-DPI providers return
// 2x the requested pixels and the scale math below is off by that factor
// otherwise.
type Footprint struct {
	Center      Coordinate
	Zoom        int
	PixelWidth  int
	PixelHeight int
}

// MetersPerPixel returns the Web Mercator ground resolution at the footprint
// center latitude and zoom level.
func (f Footprint) MetersPerPixel() float64 {
	return groundResolutionBase * math.Cos(f.Center.Lat*math.Pi/180) / math.Pow(2, float64(f.Zoom))
}

// GeoPolygon is a closed geographic ring with a detection confidence,
// serialized in GeoJSON geometry shape.
type GeoPolygon struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
	Confidence  float64       `json:"confidence"`
}

// Ring returns the outer ring as [lon,lat] pairs.
func (p GeoPolygon) Ring() [][]float64 {
	if len(p.Coordinates) == 0 {
		return nil
	}
	return p.Coordinates[0]
}

// Geom converts the polygon to a go-geom Polygon for GeoJSON encoding.
func (p GeoPolygon) Geom() *geom.Polygon {
	ring := p.Ring()
	flat := make([]float64, 0, len(ring)*2)
	for _, pt := range ring {
		flat = append(flat, pt[0], pt[1])
	}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

// BoxToPolygon projects a normalized image-space box through an image
// footprint into a geographic polygon. The ring is emitted top-left,
// top-right, bottom-right, bottom-left and closed by repeating the first
// point. The footprint zoom must be the value used to acquire the image;
// a mismatch silently yields wrong-scale polygons.
func BoxToPolygon(box NormalizedBox, fp Footprint) (GeoPolygon, error) {
	if err := box.Validate(); err != nil {
		return GeoPolygon{}, err
	}

	mpp := fp.MetersPerPixel()
	widthM := float64(fp.PixelWidth) * mpp
	heightM := float64(fp.PixelHeight) * mpp

	// Signed meter offsets from the image center. Image y grows downward
	// while latitude grows upward, so the vertical axis flips: the box's
	// y_min edge is the northern one.
	xMinM := (box.XMin - 0.5) * widthM
	xMaxM := (box.XMax - 0.5) * widthM
	yMinM := (0.5 - box.YMax) * heightM
	yMaxM := (0.5 - box.YMin) * heightM

	latPerMeter := 1.0 / metersPerDegreeLat
	lonPerMeter := 1.0 / (metersPerDegreeLat * math.Cos(fp.Center.Lat*math.Pi/180))

	lat, lon := fp.Center.Lat, fp.Center.Lon
	tl := []float64{lon + xMinM*lonPerMeter, lat + yMaxM*latPerMeter}
	tr := []float64{lon + xMaxM*lonPerMeter, lat + yMaxM*latPerMeter}
	br := []float64{lon + xMaxM*lonPerMeter, lat + yMinM*latPerMeter}
	bl := []float64{lon + xMinM*lonPerMeter, lat + yMinM*latPerMeter}

	return GeoPolygon{
		Type:        "Polygon",
		Coordinates: [][][]float64{{tl, tr, br, bl, tl}},
		Confidence:  box.Confidence,
	}, nil
}

// BoxesToPolygons projects every detection box through the footprint,
// preserving order one-to-one. An empty box list is a valid "no detections"
// result and yields an empty slice, not an error.
func BoxesToPolygons(boxes []NormalizedBox, fp Footprint) ([]GeoPolygon, error) {
	polys := make([]GeoPolygon, 0, len(boxes))
	for i, box := range boxes {
		p, err := BoxToPolygon(box, fp)
		if err != nil {
			return nil, eris.Wrapf(err, "geo: detection box %d", i)
		}
		polys = append(polys, p)
	}
	return polys, nil
}

// Centroid returns the average of the ring's distinct vertices (the closing
// point is skipped).
func (p GeoPolygon) Centroid() Coordinate {
	ring := p.Ring()
	if len(ring) < 2 {
		return Coordinate{}
	}
	n := len(ring) - 1 // ring is closed
	var lon, lat float64
	for _, pt := range ring[:n] {
		lon += pt[0]
		lat += pt[1]
	}
	return Coordinate{Lat: lat / float64(n), Lon: lon / float64(n)}
}
