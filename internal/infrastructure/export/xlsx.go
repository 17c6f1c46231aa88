package export

import (
	"fmt"
	"io"
	"time"

	appexport "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/export"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	// Excel rejects sheet names longer than this
	maxSheetName = 31
)

// XLSXEncoder writes a table as a single-sheet Excel workbook
type XLSXEncoder struct {
	headerFill string
}

// NewXLSXEncoder creates an XLSX encoder
func NewXLSXEncoder() *XLSXEncoder {
	return &XLSXEncoder{headerFill: "#E6F3FF"}
}

// Format returns xlsx
func (e *XLSXEncoder) Format() appexport.Format {
	return appexport.FormatXLSX
}

// ContentType returns the MIME type of Office Open XML workbooks
func (e *XLSXEncoder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Encode writes a bold header row, one row per record and sets the column widths
func (e *XLSXEncoder) Encode(w io.Writer, t *appexport.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Sheet)
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{e.headerFill}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	for i, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if col.Width > 0 {
			name, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return err
			}
			if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
				return fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}
	if len(t.Columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for r, row := range t.Rows {
		for c := 0; c < len(t.Columns) && c < len(row); c++ {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			value, isDate := cellValue(row[c])
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", r+1, err)
			}
			if isDate {
				if err := f.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
					return err
				}
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// cellValue converts a table cell to a native spreadsheet value. Amounts
// become numbers so they can be summed; dates keep their type.
func cellValue(v any) (any, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		f, _ := x.Round(2).Float64()
		return f, false
	case time.Time:
		if x.IsZero() {
			return "", false
		}
		return x, true
	case string, int, int64:
		return x, false
	default:
		return appexport.FormatCell(v), false
	}
}

func sheetName(name string) string {
	if name == "" {
		return defaultSheet
	}
	runes := []rune(name)
	if len(runes) > maxSheetName {
		runes = runes[:maxSheetName]
	}
	return string(runes)
}

var _ appexport.Encoder = (*XLSXEncoder)(nil)
