package export

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Format is an output file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Table is the format-neutral content of one export: a header row taken
// from Columns and one row per record. Cells hold string, decimal.Decimal,
// int, int64, bool or time.Time values.
type Table struct {
	Sheet   string
	Columns []Column
	Rows    [][]any
}

// Encoder writes a table in one file format
type Encoder interface {
	Format() Format
	ContentType() string
	Encode(w io.Writer, t *Table) error
}

// Archiver stores an export and returns a time-limited download link
type Archiver interface {
	Archive(ctx context.Context, key, contentType string, body []byte) (url string, expiresAt time.Time, err error)
}

// FormatCell renders a cell the way text formats show it
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.StringFixed(2)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	default:
		return ""
	}
}
