package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	for input, want := range map[string]string{
		"":                         "DESC",
		"asc":                      "ASC",
		" Asc ":                    "ASC",
		"desc":                     "DESC",
		"ascending":                "DESC",
		"ASC; DROP TABLE invoices": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(input), "input %q", input)
	}
}

func TestValidateSortField(t *testing.T) {
	cols := sortable("code", "balance")

	tests := []struct {
		name     string
		field    string
		fallback string
		want     string
	}{
		{"whitelisted", "balance", "name", "balance"},
		{"base column", "created_at", "name", "created_at"},
		{"trimmed", "  code ", "name", "code"},
		{"empty", "", "name", "name"},
		{"unknown", "password_hash", "name", "name"},
		{"case sensitive", "CODE", "name", "name"},
		{"injection", "code; DROP TABLE customers", "name", "name"},
		{"expression", "CASE WHEN 1=1 THEN code END", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSortField(tt.field, cols, tt.fallback))
		})
	}
}

func TestSortWhitelists(t *testing.T) {
	lists := map[string]struct {
		cols     SortColumns
		fallback string
	}{
		"users":             {UserSortFields, "email"},
		"customers":         {CustomerSortFields, "name"},
		"suppliers":         {SupplierSortFields, "name"},
		"sales invoices":    {SalesInvoiceSortFields, "created_at"},
		"supplier invoices": {SupplierInvoiceSortFields, "created_at"},
		"purchase orders":   {PurchaseOrderSortFields, "created_at"},
		"accounts":          {AccountSortFields, "code"},
		"journal entries":   {JournalEntrySortFields, "entry_date"},
	}
	for name, l := range lists {
		t.Run(name, func(t *testing.T) {
			for _, c := range baseSortColumns {
				assert.True(t, l.cols[c], "missing base column %s", c)
			}
			assert.True(t, l.cols[l.fallback], "repository default %s must be sortable", l.fallback)
			assert.False(t, l.cols["tenant_id"])
		})
	}
}
