package export

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/RandomVariable1470/suryaverify/internal/geo"
	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

// featureCollection is an RFC 7946 FeatureCollection with a foreign
// "metadata" member describing the export run.
type featureCollection struct {
	Type     string             `json:"type"`
	Metadata map[string]any     `json:"metadata"`
	Features []*geojson.Feature `json:"features"`
}

// GeoJSON renders records as a FeatureCollection: one Polygon feature per
// detection zone, and one Point feature at the sample center for records
// with no detections, so negative results survive into the map layer too.
func (e *Exporter) GeoJSON(records []verify.Record) ([]byte, error) {
	var features []*geojson.Feature
	withSolar := 0

	for _, rec := range records {
		if rec.HasSolar {
			withSolar++
		}

		if len(rec.DetectionPolygons) == 0 {
			// Uploads without location metadata carry the 0,0 placeholder
			// and get no point feature.
			if (geo.Coordinate{Lat: rec.Lat, Lon: rec.Lon}).IsZero() {
				continue
			}
			features = append(features, &geojson.Feature{
				ID:       fmt.Sprintf("sample-%d", rec.SampleID),
				Geometry: geom.NewPointFlat(geom.XY, []float64{rec.Lon, rec.Lat}),
				Properties: map[string]any{
					"sample_id":  rec.SampleID,
					"has_solar":  rec.HasSolar,
					"confidence": rec.Confidence,
					"qc_status":  rec.QCStatus,
				},
			})
			continue
		}

		for i, poly := range rec.DetectionPolygons {
			features = append(features, &geojson.Feature{
				ID:       fmt.Sprintf("sample-%d-zone-%d", rec.SampleID, i),
				Geometry: poly.Geom(),
				Properties: map[string]any{
					"sample_id":       rec.SampleID,
					"zone_index":      i,
					"has_solar":       rec.HasSolar,
					"confidence":      poly.Confidence,
					"panel_count_est": rec.PanelCountEst,
					"capacity_kw_est": rec.CapacityKWEst,
					"qc_status":       rec.QCStatus,
				},
			})
		}
	}

	fc := featureCollection{
		Type: "FeatureCollection",
		Metadata: map[string]any{
			"generator":         "suryaverify",
			"exported_at":       e.now().UTC().Format("2006-01-02T15:04:05Z07:00"),
			"total_samples":     len(records),
			"samples_with_solar": withSolar,
		},
		Features: features,
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "export: encode geojson")
	}
	return data, nil
}

// FlatJSON renders records as a plain JSON array in canonical record shape.
func (e *Exporter) FlatJSON(records []verify.Record) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "export: encode json")
	}
	return data, nil
}
