package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/RandomVariable1470/suryaverify/internal/verify"
)

// ReadSamplesXLSX reads inputs from the first sheet of an XLSX workbook,
// same column layout as the CSV form.
func ReadSamplesXLSX(path string) ([]verify.Input, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: xlsx %s has no sheets", path)
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := rowToStrings(row)
		// Hand-edited sheets routinely carry trailing blank rows.
		if isBlankRow(cells) {
			continue
		}
		rows = append(rows, cells)
	}
	return rowsToInputs(rows, path)
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, 0, len(row.Cells))
	for _, cell := range row.Cells {
		cells = append(cells, cell.String())
	}
	return cells
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
