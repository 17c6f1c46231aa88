package identity

import (
	"slices"
	"strings"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
)

// Resources that permissions are granted on
const (
	ResourceCustomer        = "customer"
	ResourceSupplier        = "supplier"
	ResourceSalesInvoice    = "invoice"
	ResourceSupplierInvoice = "supplier_invoice"
	ResourcePurchaseOrder   = "purchase_order"
	ResourceAccount         = "account"
	ResourceJournal         = "journal"
	ResourceReport          = "report"
	ResourceUser            = "user"
	ResourceRole            = "role"
)

// Actions
const (
	ActionRead    = "read"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
	ActionPost    = "post"
	ActionExport  = "export"
)

var catalog = map[string][]string{
	ResourceCustomer:        {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
	ResourceSupplier:        {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
	ResourceSalesInvoice:    {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
	ResourceSupplierInvoice: {ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionApprove},
	ResourcePurchaseOrder:   {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
	ResourceAccount:         {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
	ResourceJournal:         {ActionRead, ActionCreate, ActionUpdate, ActionDelete, ActionPost},
	ResourceReport:          {ActionRead, ActionExport},
	ResourceUser:            {ActionRead, ActionUpdate},
	ResourceRole:            {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
}

// Permission builds a "resource:action" code
func Permission(resource, action string) string {
	return resource + ":" + action
}

// AllPermissions returns every known permission code, sorted
func AllPermissions() []string {
	out := make([]string, 0, 48)
	for resource, actions := range catalog {
		for _, action := range actions {
			out = append(out, Permission(resource, action))
		}
	}
	slices.Sort(out)
	return out
}

// IsKnownPermission reports whether code is in the catalog
func IsKnownPermission(code string) bool {
	resource, action, ok := strings.Cut(code, ":")
	if !ok {
		return false
	}
	return slices.Contains(catalog[resource], action)
}

// NormalizePermissions lower-cases, validates and de-duplicates codes
func NormalizePermissions(codes []string) ([]string, error) {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if !IsKnownPermission(code) {
			return nil, shared.NewDomainError("INVALID_PERMISSION_CODE", "Unknown permission: "+code)
		}
		if !slices.Contains(out, code) {
			out = append(out, code)
		}
	}
	slices.Sort(out)
	return out, nil
}

// MergePermissions unions the permissions of several roles
func MergePermissions(roles []*Role) []string {
	out := make([]string, 0)
	for _, r := range roles {
		for _, p := range r.Permissions {
			if !slices.Contains(out, p) {
				out = append(out, p)
			}
		}
	}
	slices.Sort(out)
	return out
}
