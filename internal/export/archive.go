package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

// Archive bundles every export layer into one ZIP: the master GeoJSON, a
// per-sample JSON report under json_reports/, the summary CSV and XLSX, and
// the shapefile set for desktop GIS tools.
func (e *Exporter) Archive(records []verify.Record) ([]byte, error) {
	stamp := e.now().UTC().Format("2006-01-02")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	geo, err := e.GeoJSON(records)
	if err != nil {
		return nil, err
	}
	if err := addZipEntry(zw, fmt.Sprintf("all_results_%s.geojson", stamp), geo); err != nil {
		return nil, err
	}

	for _, rec := range records {
		report, merr := json.MarshalIndent(rec, "", "  ")
		if merr != nil {
			return nil, eris.Wrapf(merr, "export: encode report for sample %d", rec.SampleID)
		}
		name := fmt.Sprintf("json_reports/report_%d.json", rec.SampleID)
		if err := addZipEntry(zw, name, report); err != nil {
			return nil, err
		}
	}

	csvData, err := e.SummaryCSV(records)
	if err != nil {
		return nil, err
	}
	if err := addZipEntry(zw, fmt.Sprintf("summary_%s.csv", stamp), csvData); err != nil {
		return nil, err
	}

	xlsxData, err := e.SummaryXLSX(records)
	if err != nil {
		return nil, err
	}
	if err := addZipEntry(zw, fmt.Sprintf("summary_%s.xlsx", stamp), xlsxData); err != nil {
		return nil, err
	}

	if err := e.addShapefile(zw, stamp, records); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, eris.Wrap(err, "export: close archive")
	}
	return buf.Bytes(), nil
}

// addShapefile writes the shapefile set to a scratch dir and copies it into
// the archive. Skipped entirely when no record has detection geometry.
func (e *Exporter) addShapefile(zw *zip.Writer, stamp string, records []verify.Record) error {
	hasGeometry := false
	for _, rec := range records {
		if len(rec.DetectionPolygons) > 0 {
			hasGeometry = true
			break
		}
	}
	if !hasGeometry {
		return nil
	}

	dir, err := os.MkdirTemp("", "suryaverify-shp-*")
	if err != nil {
		return eris.Wrap(err, "export: create shapefile scratch dir")
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	paths, err := writeShapefile(dir, "detections_"+stamp, records)
	if err != nil {
		return err
	}
	for _, p := range paths {
		data, readErr := os.ReadFile(p)
		if readErr != nil {
			return eris.Wrapf(readErr, "export: read shapefile part %s", p)
		}
		if err := addZipEntry(zw, "shapefile/"+filepath.Base(p), data); err != nil {
			return err
		}
	}
	return nil
}

func addZipEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return eris.Wrapf(err, "export: create archive entry %s", name)
	}
	if _, err := f.Write(data); err != nil {
		return eris.Wrapf(err, "export: write archive entry %s", name)
	}
	return nil
}
