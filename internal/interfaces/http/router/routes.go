package router

import (
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/identity"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/interfaces/http/handler"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// RealtimeTokenParam carries the access token of EventSource requests
const RealtimeTokenParam = "access_token"

// Handlers are the REST handlers mounted by RegisterAPI
type Handlers struct {
	Auth             *handler.AuthHandler
	Identity         *handler.IdentityHandler
	Customers        *handler.CustomerHandler
	Suppliers        *handler.SupplierHandler
	SalesInvoices    *handler.SalesInvoiceHandler
	SupplierInvoices *handler.SupplierInvoiceHandler
	PurchaseOrders   *handler.PurchaseOrderHandler
	Ledger           *handler.LedgerHandler
	Settings         *handler.SettingsHandler
	Dashboard        *handler.DashboardHandler
	Export           *handler.ExportHandler
	Realtime         *handler.RealtimeHandler
}

// Config controls authentication of the API routes
type Config struct {
	JWT middleware.JWTConfig
	// AuthLimiter throttles the public auth endpoints per client IP. Nil disables it.
	AuthLimiter *middleware.RateLimiter
}

// can requires resource:action on the caller's token
func can(resource, action string) gin.HandlerFunc {
	return middleware.RequirePermission(identity.Permission(resource, action))
}

// RegisterAPI mounts every route under /api/v1
func RegisterAPI(engine *gin.Engine, h Handlers, cfg Config) *Router {
	authenticated := []gin.HandlerFunc{middleware.JWTAuth(cfg.JWT), middleware.SpanAttributes()}

	streamJWT := cfg.JWT
	streamJWT.QueryParam = RealtimeTokenParam

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(
		authRoutes(h.Auth, cfg.AuthLimiter),
		sessionRoutes(h.Auth).Use(authenticated...),
		identityRoutes(h.Identity).Use(authenticated...),
		partnerRoutes(h.Customers, h.Suppliers).Use(authenticated...),
		invoicingRoutes(h.SalesInvoices, h.SupplierInvoices, h.PurchaseOrders).Use(authenticated...),
		ledgerRoutes(h.Ledger).Use(authenticated...),
		settingsRoutes(h.Settings).Use(authenticated...),
		dashboardRoutes(h.Dashboard).Use(authenticated...),
		exportRoutes(h.Export).Use(authenticated...),
	)
	// the stream is only mounted when the change feed is enabled
	if h.Realtime != nil {
		r.Register(realtimeRoutes(h.Realtime).Use(middleware.JWTAuth(streamJWT), middleware.SpanAttributes()))
	}
	r.Setup()
	return r
}

func authRoutes(h *handler.AuthHandler, limiter *middleware.RateLimiter) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	if limiter != nil {
		g.Use(middleware.RateLimit(limiter))
	}
	g.POST("/sign-up", h.SignUp)
	g.POST("/sign-in", h.SignIn)
	g.POST("/refresh", h.Refresh)
	return g
}

func sessionRoutes(h *handler.AuthHandler) *DomainGroup {
	g := NewDomainGroup("session", "/auth")
	g.POST("/sign-out", h.SignOut)
	g.GET("/session", h.Session)
	g.PUT("/password", h.ChangePassword)
	return g
}

func identityRoutes(h *handler.IdentityHandler) *DomainGroup {
	g := NewDomainGroup("identity", "/identity")
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)

	g.GET("/users", can(identity.ResourceUser, identity.ActionRead), h.ListUsers)
	g.PUT("/users/:id/roles", can(identity.ResourceUser, identity.ActionUpdate), h.AssignRoles)

	g.GET("/roles", can(identity.ResourceRole, identity.ActionRead), h.ListRoles)
	g.POST("/roles", can(identity.ResourceRole, identity.ActionCreate), h.CreateRole)
	g.GET("/roles/:id", can(identity.ResourceRole, identity.ActionRead), h.GetRole)
	g.PUT("/roles/:id", can(identity.ResourceRole, identity.ActionUpdate), h.UpdateRole)
	g.DELETE("/roles/:id", can(identity.ResourceRole, identity.ActionDelete), h.DeleteRole)
	g.GET("/permissions", can(identity.ResourceRole, identity.ActionRead), h.ListPermissions)
	return g
}

func partnerRoutes(customers *handler.CustomerHandler, suppliers *handler.SupplierHandler) *DomainGroup {
	g := NewDomainGroup("partner", "/partner")

	c := g.Group("customers", "/customers")
	c.GET("", can(identity.ResourceCustomer, identity.ActionRead), customers.List)
	c.POST("", can(identity.ResourceCustomer, identity.ActionCreate), customers.Create)
	c.GET("/:id", can(identity.ResourceCustomer, identity.ActionRead), customers.GetByID)
	c.PUT("/:id", can(identity.ResourceCustomer, identity.ActionUpdate), customers.Update)
	c.DELETE("/:id", can(identity.ResourceCustomer, identity.ActionDelete), customers.Delete)
	c.POST("/:id/activate", can(identity.ResourceCustomer, identity.ActionUpdate), customers.Activate)
	c.POST("/:id/deactivate", can(identity.ResourceCustomer, identity.ActionUpdate), customers.Deactivate)

	s := g.Group("suppliers", "/suppliers")
	s.GET("", can(identity.ResourceSupplier, identity.ActionRead), suppliers.List)
	s.POST("", can(identity.ResourceSupplier, identity.ActionCreate), suppliers.Create)
	s.GET("/:id", can(identity.ResourceSupplier, identity.ActionRead), suppliers.GetByID)
	s.PUT("/:id", can(identity.ResourceSupplier, identity.ActionUpdate), suppliers.Update)
	s.DELETE("/:id", can(identity.ResourceSupplier, identity.ActionDelete), suppliers.Delete)
	s.POST("/:id/activate", can(identity.ResourceSupplier, identity.ActionUpdate), suppliers.Activate)
	s.POST("/:id/deactivate", can(identity.ResourceSupplier, identity.ActionUpdate), suppliers.Deactivate)
	return g
}

func invoicingRoutes(sales *handler.SalesInvoiceHandler, payables *handler.SupplierInvoiceHandler, orders *handler.PurchaseOrderHandler) *DomainGroup {
	g := NewDomainGroup("invoicing", "/invoicing")

	si := g.Group("sales-invoices", "/sales-invoices")
	si.GET("", can(identity.ResourceSalesInvoice, identity.ActionRead), sales.List)
	si.POST("", can(identity.ResourceSalesInvoice, identity.ActionCreate), sales.Create)
	si.GET("/:id", can(identity.ResourceSalesInvoice, identity.ActionRead), sales.GetByID)
	si.PUT("/:id", can(identity.ResourceSalesInvoice, identity.ActionUpdate), sales.Update)
	si.DELETE("/:id", can(identity.ResourceSalesInvoice, identity.ActionDelete), sales.Delete)
	si.POST("/:id/send", can(identity.ResourceSalesInvoice, identity.ActionUpdate), sales.Send)
	si.POST("/:id/payments", can(identity.ResourceSalesInvoice, identity.ActionUpdate), sales.RecordPayment)
	si.POST("/:id/cancel", can(identity.ResourceSalesInvoice, identity.ActionUpdate), sales.Cancel)
	si.GET("/:id/pdf", can(identity.ResourceSalesInvoice, identity.ActionRead), sales.PDF)

	pi := g.Group("supplier-invoices", "/supplier-invoices")
	pi.GET("", can(identity.ResourceSupplierInvoice, identity.ActionRead), payables.List)
	pi.POST("", can(identity.ResourceSupplierInvoice, identity.ActionCreate), payables.Create)
	pi.GET("/:id", can(identity.ResourceSupplierInvoice, identity.ActionRead), payables.GetByID)
	pi.PUT("/:id", can(identity.ResourceSupplierInvoice, identity.ActionUpdate), payables.Update)
	pi.DELETE("/:id", can(identity.ResourceSupplierInvoice, identity.ActionDelete), payables.Delete)
	pi.POST("/:id/approve", can(identity.ResourceSupplierInvoice, identity.ActionApprove), payables.Approve)
	pi.POST("/:id/payments", can(identity.ResourceSupplierInvoice, identity.ActionUpdate), payables.RecordPayment)
	pi.POST("/:id/cancel", can(identity.ResourceSupplierInvoice, identity.ActionUpdate), payables.Cancel)

	po := g.Group("purchase-orders", "/purchase-orders")
	po.GET("", can(identity.ResourcePurchaseOrder, identity.ActionRead), orders.List)
	po.POST("", can(identity.ResourcePurchaseOrder, identity.ActionCreate), orders.Create)
	po.GET("/:id", can(identity.ResourcePurchaseOrder, identity.ActionRead), orders.GetByID)
	po.PUT("/:id", can(identity.ResourcePurchaseOrder, identity.ActionUpdate), orders.Update)
	po.DELETE("/:id", can(identity.ResourcePurchaseOrder, identity.ActionDelete), orders.Delete)
	po.POST("/:id/submit", can(identity.ResourcePurchaseOrder, identity.ActionUpdate), orders.Submit)
	po.POST("/:id/receive", can(identity.ResourcePurchaseOrder, identity.ActionUpdate), orders.Receive)
	po.POST("/:id/cancel", can(identity.ResourcePurchaseOrder, identity.ActionUpdate), orders.Cancel)
	return g
}

func ledgerRoutes(h *handler.LedgerHandler) *DomainGroup {
	g := NewDomainGroup("ledger", "/ledger")

	a := g.Group("accounts", "/accounts")
	a.GET("", can(identity.ResourceAccount, identity.ActionRead), h.ListAccounts)
	a.POST("", can(identity.ResourceAccount, identity.ActionCreate), h.CreateAccount)
	a.GET("/:id", can(identity.ResourceAccount, identity.ActionRead), h.GetAccount)
	a.PUT("/:id", can(identity.ResourceAccount, identity.ActionUpdate), h.UpdateAccount)
	a.DELETE("/:id", can(identity.ResourceAccount, identity.ActionDelete), h.DeleteAccount)

	j := g.Group("journal-entries", "/journal-entries")
	j.GET("", can(identity.ResourceJournal, identity.ActionRead), h.ListJournalEntries)
	j.POST("", can(identity.ResourceJournal, identity.ActionCreate), h.CreateJournalEntry)
	j.GET("/:id", can(identity.ResourceJournal, identity.ActionRead), h.GetJournalEntry)
	j.PUT("/:id", can(identity.ResourceJournal, identity.ActionUpdate), h.UpdateJournalEntry)
	j.DELETE("/:id", can(identity.ResourceJournal, identity.ActionDelete), h.DeleteJournalEntry)
	j.POST("/:id/post", can(identity.ResourceJournal, identity.ActionPost), h.PostJournalEntry)
	j.POST("/:id/void", can(identity.ResourceJournal, identity.ActionPost), h.VoidJournalEntry)

	g.GET("/trial-balance", can(identity.ResourceReport, identity.ActionRead), h.TrialBalance)
	return g
}

func settingsRoutes(h *handler.SettingsHandler) *DomainGroup {
	g := NewDomainGroup("settings", "/settings")
	g.GET("/preferences", h.GetPreferences)
	g.PUT("/preferences", h.UpdatePreferences)
	return g
}

func dashboardRoutes(h *handler.DashboardHandler) *DomainGroup {
	g := NewDomainGroup("dashboard", "/dashboard")
	g.GET("/stats", can(identity.ResourceReport, identity.ActionRead), h.Stats)
	g.GET("/recent-invoices", can(identity.ResourceSalesInvoice, identity.ActionRead), h.RecentInvoices)
	return g
}

func exportRoutes(h *handler.ExportHandler) *DomainGroup {
	g := NewDomainGroup("export", "/export")
	g.GET("/:resource", can(identity.ResourceReport, identity.ActionExport), h.Export)
	return g
}

// realtimeRoutes checks per-table read permissions in the handler
func realtimeRoutes(h *handler.RealtimeHandler) *DomainGroup {
	g := NewDomainGroup("realtime", "/realtime")
	g.GET("/stream", h.Stream)
	return g
}
