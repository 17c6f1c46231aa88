package export

import (
	"encoding/csv"
	"fmt"
	"io"

	appexport "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/export"
)

// utf8BOM lets spreadsheet applications detect the encoding
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVEncoder writes a table as RFC 4180 CSV
type CSVEncoder struct {
	delimiter rune
	bom       bool
}

// CSVOption configures a CSVEncoder
type CSVOption func(*CSVEncoder)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) CSVOption {
	return func(e *CSVEncoder) {
		e.delimiter = d
	}
}

// WithBOM prefixes the output with a UTF-8 byte order mark
func WithBOM(bom bool) CSVOption {
	return func(e *CSVEncoder) {
		e.bom = bom
	}
}

// NewCSVEncoder creates a CSV encoder
func NewCSVEncoder(opts ...CSVOption) *CSVEncoder {
	e := &CSVEncoder{delimiter: ','}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Format returns csv
func (e *CSVEncoder) Format() appexport.Format {
	return appexport.FormatCSV
}

// ContentType returns the MIME type of CSV
func (e *CSVEncoder) ContentType() string {
	return "text/csv; charset=utf-8"
}

// Encode writes the header row followed by one line per row
func (e *CSVEncoder) Encode(w io.Writer, t *appexport.Table) error {
	if e.bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	cw.Comma = e.delimiter

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Header
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for n, row := range t.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = appexport.FormatCell(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", n+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

var _ appexport.Encoder = (*CSVEncoder)(nil)
