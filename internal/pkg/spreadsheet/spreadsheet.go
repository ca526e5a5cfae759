// internal/pkg/spreadsheet/spreadsheet.go
package spreadsheet

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of an .xlsx workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const maxSheetName = 31

// Sheet is one tab of a workbook: a header row followed by data rows
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// AddRow appends a row, converting decimals and times to cell values
func (s *Sheet) AddRow(values ...interface{}) {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = cellValue(v)
	}
	s.Rows = append(s.Rows, row)
}

// Write renders sheets into a single workbook and writes it to w
func Write(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("spreadsheet: no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range sheets {
		name := sheetName(sheet.Name, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("failed to name sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", name, err)
		}

		if err := writeSheet(f, name, sheet, headerStyle); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, sheet Sheet, headerStyle int) error {
	headers := make([]interface{}, len(sheet.Headers))
	for i, h := range sheet.Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if len(headers) > 0 {
		if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
		last, err := excelize.ColumnNumberToName(len(headers))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, "A", last, 18); err != nil {
			return fmt.Errorf("failed to size columns: %w", err)
		}
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(name, cell, &r); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return nil
}

func sheetName(name string, index int) string {
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

func cellValue(v interface{}) interface{} {
	switch x := v.(type) {
	case decimal.Decimal:
		return x.InexactFloat64()
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return x.InexactFloat64()
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.Format("2006-01-02 15:04:05")
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *uint:
		if x == nil {
			return nil
		}
		return *x
	}
	return v
}
