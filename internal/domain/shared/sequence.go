package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document number prefixes
const (
	PrefixSalesInvoice  = "INV"
	PrefixPurchaseOrder = "PO"
	PrefixJournalEntry  = "JE"
)

// SequenceGenerator allocates per-tenant document numbers.
// Implementations must be safe under concurrent callers and must run inside
// the caller's transaction when one is present in ctx.
type SequenceGenerator interface {
	Next(ctx context.Context, tenantID uuid.UUID, prefix string, year int) (int64, error)
}

// FormatDocumentNumber renders PREFIX-YYYY-NNNNN.
func FormatDocumentNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%04d-%05d", prefix, year, seq)
}

// NextDocumentNumber allocates and formats the next number for prefix.
func NextDocumentNumber(ctx context.Context, gen SequenceGenerator, tenantID uuid.UUID, prefix string, at time.Time) (string, error) {
	year := at.Year()
	seq, err := gen.Next(ctx, tenantID, prefix, year)
	if err != nil {
		return "", err
	}
	return FormatDocumentNumber(prefix, year, seq), nil
}
