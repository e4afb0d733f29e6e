package annotation

import (
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ImportShapefile loads ground-truth polygons from an ESRI shapefile into
// the engine. Coordinates must be geographic (lon/lat). Optional PANEL_TYPE
// and NOTES attributes carry over; non-polygon shapes are skipped.
func (e *Engine) ImportShapefile(path string) (int, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return 0, eris.Wrapf(err, "annotation: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	attr := func(name string) string {
		idx, ok := fieldIdx[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
	}

	imported, skipped := 0, 0
	for reader.Next() {
		n, shape := reader.Shape()

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}

		for _, ring := range splitParts(poly) {
			if len(ring) < 3 {
				skipped++
				continue
			}
			if _, err := e.Add(ring, attr("panel_type"), attr("notes")); err != nil {
				return imported, eris.Wrapf(err, "annotation: shapefile record %d", n)
			}
			imported++
		}
	}

	if skipped > 0 {
		zap.L().Debug("annotation: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	return imported, nil
}

// splitParts breaks a multi-part polygon into per-ring [lon,lat] slices.
func splitParts(poly *shp.Polygon) [][][]float64 {
	parts := make([][][]float64, 0, len(poly.Parts))
	for i, start := range poly.Parts {
		end := int32(len(poly.Points))
		if i+1 < len(poly.Parts) {
			end = poly.Parts[i+1]
		}
		ring := make([][]float64, 0, end-start)
		for _, pt := range poly.Points[start:end] {
			ring = append(ring, []float64{pt.X, pt.Y})
		}
		parts = append(parts, ring)
	}
	return parts
}
