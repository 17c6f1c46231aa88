package export

import (
	invoicingapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/invoicing"
	ledgerapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/ledger"
	partnerapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/ledger"
)

// Row builders emit cells in the order of the resource's Columns.

func customerRow(c partnerapp.CustomerResponse) []any {
	return []any{c.Code, c.Name, c.Email, c.Phone, c.TaxID, c.City, c.Country, c.CreditLimit, c.Balance, c.Status}
}

func supplierRow(s partnerapp.SupplierResponse) []any {
	return []any{s.Code, s.Name, s.ContactName, s.Email, s.Phone, s.TaxID, s.City, s.Country, s.PaymentTermsDays, s.Balance, s.Status}
}

func salesInvoiceRow(inv invoicingapp.SalesInvoiceResponse) []any {
	customer := inv.CustomerName
	if customer == "" {
		customer = inv.CustomerID.String()
	}
	return []any{inv.InvoiceNumber, customer, inv.IssueDate, inv.DueDate, inv.Status, inv.Currency,
		inv.Subtotal, inv.TaxTotal, inv.Total, inv.AmountPaid, inv.AmountDue}
}

func supplierInvoiceRow(inv invoicingapp.SupplierInvoiceResponse) []any {
	return []any{inv.InvoiceNumber, inv.SupplierID.String(), inv.IssueDate, inv.DueDate, inv.Status, inv.Currency,
		inv.Subtotal, inv.TaxTotal, inv.Total, inv.AmountPaid, inv.AmountDue}
}

func purchaseOrderRow(po invoicingapp.PurchaseOrderResponse) []any {
	return []any{po.OrderNumber, po.SupplierID.String(), po.OrderDate, po.ExpectedDate, po.Status, po.Currency,
		po.Subtotal, po.TaxTotal, po.Total}
}

func journalEntryRow(je ledgerapp.JournalEntryResponse) []any {
	return []any{je.EntryNumber, je.EntryDate, je.Description, je.Reference, je.Status, je.TotalDebit, je.TotalCredit}
}

func accountRow(a ledgerapp.AccountResponse) []any {
	return []any{a.Code, a.Name, a.Type, a.NormalSide, a.IsActive}
}

func trialBalanceRow(l ledger.TrialBalanceLine) []any {
	return []any{l.Code, l.Name, string(l.Type), l.Debit, l.Credit, l.Balance}
}
