// Package ingest reads sample lists for batch verification. Survey teams
// hand these around as CSV or XLSX with sample_id, lat, lon columns.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/RandomVariable1470/suryaverify/internal/geo"
	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

// ReadSamples loads verification inputs from a CSV or XLSX file, dispatching
// on the file extension.
func ReadSamples(path string) ([]verify.Input, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadSamplesCSV(path)
	case ".xlsx":
		return ReadSamplesXLSX(path)
	default:
		return nil, eris.Errorf("ingest: unsupported sample file %s, want .csv or .xlsx", path)
	}
}

// ReadSamplesCSV reads inputs from a sample_id,lat,lon CSV. A header row is
// detected and skipped.
func ReadSamplesCSV(path string) ([]verify.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open csv %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: read csv %s", path)
		}
		rows = append(rows, row)
	}
	return rowsToInputs(rows, path)
}

func rowsToInputs(rows [][]string, path string) ([]verify.Input, error) {
	var items []verify.Input
	for i, row := range rows {
		if len(row) < 3 {
			return nil, eris.Errorf("ingest: %s row %d: want sample_id,lat,lon, got %d columns", path, i+1, len(row))
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "sample_id") {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: %s row %d: sample_id", path, i+1)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: %s row %d: lat", path, i+1)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: %s row %d: lon", path, i+1)
		}

		in := verify.CoordinateInput(geo.Coordinate{Lat: lat, Lon: lon})
		in.SampleID = id
		items = append(items, in)
	}
	return items, nil
}
