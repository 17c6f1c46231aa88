package export

import "slices"

// Resource names an exportable list
type Resource string

const (
	ResourceCustomers        Resource = "customers"
	ResourceSuppliers        Resource = "suppliers"
	ResourceSalesInvoices    Resource = "sales-invoices"
	ResourceSupplierInvoices Resource = "supplier-invoices"
	ResourcePurchaseOrders   Resource = "purchase-orders"
	ResourceJournalEntries   Resource = "journal-entries"
	ResourceAccounts         Resource = "accounts"
	ResourceTrialBalance     Resource = "trial-balance"
)

// Column is one exported field
type Column struct {
	Header string
	// Width is the XLSX column width in characters
	Width float64
}

var columns = map[Resource][]Column{
	ResourceCustomers: {
		{"Code", 12}, {"Name", 30}, {"Email", 28}, {"Phone", 18}, {"Tax ID", 16},
		{"City", 16}, {"Country", 10}, {"Credit Limit", 14}, {"Balance", 14}, {"Status", 10},
	},
	ResourceSuppliers: {
		{"Code", 12}, {"Name", 30}, {"Contact", 22}, {"Email", 28}, {"Phone", 18},
		{"Tax ID", 16}, {"City", 16}, {"Country", 10}, {"Payment Terms (days)", 12},
		{"Balance", 14}, {"Status", 10},
	},
	ResourceSalesInvoices: {
		{"Invoice Number", 18}, {"Customer", 28}, {"Issue Date", 12}, {"Due Date", 12},
		{"Status", 10}, {"Currency", 9}, {"Subtotal", 14}, {"Tax", 12}, {"Total", 14},
		{"Paid", 14}, {"Due", 14},
	},
	ResourceSupplierInvoices: {
		{"Invoice Number", 18}, {"Supplier ID", 38}, {"Issue Date", 12}, {"Due Date", 12},
		{"Status", 10}, {"Currency", 9}, {"Subtotal", 14}, {"Tax", 12}, {"Total", 14},
		{"Paid", 14}, {"Due", 14},
	},
	ResourcePurchaseOrders: {
		{"Order Number", 18}, {"Supplier ID", 38}, {"Order Date", 12}, {"Expected Date", 13},
		{"Status", 10}, {"Currency", 9}, {"Subtotal", 14}, {"Tax", 12}, {"Total", 14},
	},
	ResourceJournalEntries: {
		{"Entry Number", 16}, {"Date", 12}, {"Description", 36}, {"Reference", 16},
		{"Status", 10}, {"Debit", 14}, {"Credit", 14},
	},
	ResourceAccounts: {
		{"Code", 10}, {"Name", 30}, {"Type", 12}, {"Normal Side", 11}, {"Active", 8},
	},
	ResourceTrialBalance: {
		{"Code", 10}, {"Account", 30}, {"Type", 12}, {"Debit", 14}, {"Credit", 14}, {"Balance", 14},
	},
}

// Columns returns the exported columns of a resource in output order, or
// nil for an unknown resource
func Columns(r Resource) []Column {
	return slices.Clone(columns[r])
}

// Headers returns the header row of a resource
func Headers(r Resource) []string {
	cols := columns[r]
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}

// Resources lists every exportable resource
func Resources() []Resource {
	out := make([]Resource, 0, len(columns))
	for r := range columns {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// IsResource reports whether r can be exported
func IsResource(r Resource) bool {
	_, ok := columns[r]
	return ok
}
