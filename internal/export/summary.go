package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

// summaryHeader is the column order auditors' spreadsheets expect. Changing
// it breaks downstream imports.
var summaryHeader = []string{
	"sample_id", "lat", "lon", "has_solar", "confidence",
	"panel_count_est", "capacity_kw_est", "qc_status",
}

func summaryRow(rec verify.Record) []string {
	return []string{
		strconv.Itoa(rec.SampleID),
		strconv.FormatFloat(rec.Lat, 'f', 6, 64),
		strconv.FormatFloat(rec.Lon, 'f', 6, 64),
		strconv.FormatBool(rec.HasSolar),
		strconv.FormatFloat(rec.Confidence, 'f', 2, 64),
		strconv.Itoa(rec.PanelCountEst),
		strconv.FormatFloat(rec.CapacityKWEst, 'f', 2, 64),
		rec.QCStatus,
	}
}

// SummaryCSV renders the per-sample summary table as CSV.
func (e *Exporter) SummaryCSV(records []verify.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(summaryHeader); err != nil {
		return nil, eris.Wrap(err, "export: write csv header")
	}
	for _, rec := range records {
		if err := w.Write(summaryRow(rec)); err != nil {
			return nil, eris.Wrapf(err, "export: write csv row for sample %d", rec.SampleID)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, eris.Wrap(err, "export: flush csv")
	}
	return buf.Bytes(), nil
}

// SummaryXLSX renders the same summary table as a single-sheet workbook.
func (e *Exporter) SummaryXLSX(records []verify.Record) ([]byte, error) {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Verification Summary")
	if err != nil {
		return nil, eris.Wrap(err, "export: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, col := range summaryHeader {
		header.AddCell().SetString(col)
	}

	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetInt(rec.SampleID)
		row.AddCell().SetFloat(rec.Lat)
		row.AddCell().SetFloat(rec.Lon)
		row.AddCell().SetBool(rec.HasSolar)
		row.AddCell().SetFloat(rec.Confidence)
		row.AddCell().SetInt(rec.PanelCountEst)
		row.AddCell().SetFloat(rec.CapacityKWEst)
		row.AddCell().SetString(rec.QCStatus)
	}

	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "export: write xlsx")
	}
	return buf.Bytes(), nil
}
