// Package export serializes verification records into the formats auditors
// and GIS tools consume: GeoJSON, flat JSON, CSV, XLSX, shapefile, and a
// ZIP archive bundling all of them.
package export

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

// Format names an export serialization.
type Format string

const (
	FormatGeoJSON Format = "geojson"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatArchive Format = "archive"
)

// Exporter renders verification records. The clock is injectable so tests
// get stable timestamps in metadata and filenames.
type Exporter struct {
	now func() time.Time
}

// New creates an exporter using wall-clock time.
func New() *Exporter {
	return &Exporter{now: time.Now}
}

// NewWithClock creates an exporter with a fixed clock, for tests.
func NewWithClock(now func() time.Time) *Exporter {
	return &Exporter{now: now}
}

// Result is one rendered export: the payload plus a suggested filename and
// content type for HTTP delivery.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Render serializes records in the requested format.
func (e *Exporter) Render(records []verify.Record, format Format) (*Result, error) {
	if len(records) == 0 {
		return nil, eris.New("export: no records to export")
	}

	stamp := e.now().UTC().Format("2006-01-02")
	switch format {
	case FormatGeoJSON:
		data, err := e.GeoJSON(records)
		if err != nil {
			return nil, err
		}
		return &Result{data, fmt.Sprintf("verification_results_%s.geojson", stamp), "application/geo+json"}, nil
	case FormatJSON:
		data, err := e.FlatJSON(records)
		if err != nil {
			return nil, err
		}
		return &Result{data, fmt.Sprintf("verification_results_%s.json", stamp), "application/json"}, nil
	case FormatCSV:
		data, err := e.SummaryCSV(records)
		if err != nil {
			return nil, err
		}
		return &Result{data, fmt.Sprintf("summary_%s.csv", stamp), "text/csv"}, nil
	case FormatXLSX:
		data, err := e.SummaryXLSX(records)
		if err != nil {
			return nil, err
		}
		return &Result{data, fmt.Sprintf("summary_%s.xlsx", stamp), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}, nil
	case FormatArchive:
		data, err := e.Archive(records)
		if err != nil {
			return nil, err
		}
		return &Result{data, fmt.Sprintf("batch_verification_export_%s.zip", stamp), "application/zip"}, nil
	default:
		return nil, eris.Errorf("export: unknown format %q", format)
	}
}

// Write picks the natural format for a record set: multiple records get the
// full archive, a single record with detection polygons gets GeoJSON, and a
// single record with nothing to map gets the flat JSON report.
func (e *Exporter) Write(records []verify.Record) (*Result, error) {
	switch {
	case len(records) == 0:
		return nil, eris.New("export: no records to export")
	case len(records) > 1:
		return e.Render(records, FormatArchive)
	case len(records[0].DetectionPolygons) > 0:
		return e.Render(records, FormatGeoJSON)
	default:
		return e.Render(records, FormatJSON)
	}
}
