package persistence

import (
	"strings"
)

// SortColumns whitelists the columns a list endpoint may order by. Sort
// input reaches ORDER BY verbatim, so anything outside the set is dropped.
type SortColumns map[string]bool

// baseSortColumns are present on every aggregate table
var baseSortColumns = []string{"id", "created_at", "updated_at"}

func sortable(columns ...string) SortColumns {
	set := make(SortColumns, len(baseSortColumns)+len(columns))
	for _, c := range baseSortColumns {
		set[c] = true
	}
	for _, c := range columns {
		set[c] = true
	}
	return set
}

// ValidateSortOrder normalizes the direction to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns the trimmed field when it is whitelisted and
// fallback otherwise
func ValidateSortField(field string, allowed SortColumns, fallback string) string {
	if field = strings.TrimSpace(field); allowed[field] {
		return field
	}
	return fallback
}

var (
	UserSortFields     = sortable("email", "full_name", "status", "last_login_at")
	CustomerSortFields = sortable("code", "name", "email", "city", "country", "is_active", "balance", "credit_limit")
	SupplierSortFields = sortable("code", "name", "contact_name", "email", "city", "country", "is_active", "balance", "payment_terms_days")

	SalesInvoiceSortFields    = sortable("invoice_number", "issue_date", "due_date", "status", "total", "amount_paid")
	SupplierInvoiceSortFields = sortable("invoice_number", "issue_date", "due_date", "status", "total", "amount_paid", "approved_at")
	PurchaseOrderSortFields   = sortable("order_number", "order_date", "expected_date", "status", "total")

	AccountSortFields      = sortable("code", "name", "type", "is_active")
	JournalEntrySortFields = sortable("entry_number", "entry_date", "status", "total_debit")
)
