package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrNoWorksheet    = errors.New("no worksheet found")
	ErrEmptyWorksheet = errors.New("worksheet is empty")
)

// Row is one (name, value) pair from the first worksheet. Line is 1-based as in Excel.
type Row struct {
	Line     int
	Name     string
	RawValue string
	Value    float64
	// ParseErr is set when RawValue is not a number.
	ParseErr error
}

// ReadNameValueRows reads the first worksheet of an .xlsx workbook. The first
// row is a header. Rows missing a name or a value are skipped.
func ReadNameValueRows(r io.Reader) ([]Row, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoWorksheet
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorksheet
	}

	var out []Row
	for i, cells := range rows[1:] {
		name := cellValue(cells, 0)
		raw := cellValue(cells, 1)
		if name == "" || raw == "" {
			continue
		}
		row := Row{Line: i + 2, Name: name, RawValue: raw}
		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			row.ParseErr = fmt.Errorf("value %q is not a number", raw)
		} else {
			row.Value = value
		}
		out = append(out, row)
	}
	return out, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
