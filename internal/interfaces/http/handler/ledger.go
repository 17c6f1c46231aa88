package handler

import (
	"context"

	ledgerapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountService is the chart of accounts API
type AccountService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req ledgerapp.CreateAccountRequest) (*ledgerapp.AccountResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ledgerapp.AccountResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter ledgerapp.AccountListFilter) ([]ledgerapp.AccountResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req ledgerapp.UpdateAccountRequest) (*ledgerapp.AccountResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// JournalEntryService is the journal API
type JournalEntryService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req ledgerapp.JournalEntryRequest) (*ledgerapp.JournalEntryResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ledgerapp.JournalEntryResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter ledgerapp.JournalListFilter) ([]ledgerapp.JournalEntryResponse, int64, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req ledgerapp.JournalEntryRequest) (*ledgerapp.JournalEntryResponse, error)
	Post(ctx context.Context, tenantID, id uuid.UUID) (*ledgerapp.JournalEntryResponse, error)
	Void(ctx context.Context, tenantID, id uuid.UUID) (*ledgerapp.JournalEntryResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// TrialBalanceService computes trial balances
type TrialBalanceService interface {
	View(ctx context.Context, tenantID uuid.UUID, query ledgerapp.TrialBalanceQuery) (*ledgerapp.TrialBalanceView, error)
}

// LedgerHandler serves /ledger
type LedgerHandler struct {
	BaseHandler
	accounts     AccountService
	journal      JournalEntryService
	trialBalance TrialBalanceService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(accounts AccountService, journal JournalEntryService, trialBalance TrialBalanceService) *LedgerHandler {
	return &LedgerHandler{accounts: accounts, journal: journal, trialBalance: trialBalance}
}

// CreateAccount handles POST /ledger/accounts
func (h *LedgerHandler) CreateAccount(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req ledgerapp.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	account, err := h.accounts.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// GetAccount handles GET /ledger/accounts/:id
func (h *LedgerHandler) GetAccount(c *gin.Context) {
	byID(&h.BaseHandler, c, h.accounts.GetByID)
}

// ListAccounts handles GET /ledger/accounts
func (h *LedgerHandler) ListAccounts(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter ledgerapp.AccountListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	accounts, total, err := h.accounts.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, accounts, total, page, size)
}

// UpdateAccount handles PUT /ledger/accounts/:id
func (h *LedgerHandler) UpdateAccount(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req ledgerapp.UpdateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.accounts.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// DeleteAccount handles DELETE /ledger/accounts/:id
func (h *LedgerHandler) DeleteAccount(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.accounts.Delete)
}

// CreateJournalEntry handles POST /ledger/journal-entries
func (h *LedgerHandler) CreateJournalEntry(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req ledgerapp.JournalEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	entry, err := h.journal.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// GetJournalEntry handles GET /ledger/journal-entries/:id
func (h *LedgerHandler) GetJournalEntry(c *gin.Context) {
	byID(&h.BaseHandler, c, h.journal.GetByID)
}

// ListJournalEntries handles GET /ledger/journal-entries
func (h *LedgerHandler) ListJournalEntries(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var filter ledgerapp.JournalListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	entries, total, err := h.journal.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, entries, total, page, size)
}

// UpdateJournalEntry handles PUT /ledger/journal-entries/:id
func (h *LedgerHandler) UpdateJournalEntry(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req ledgerapp.JournalEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := h.journal.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// PostJournalEntry handles POST /ledger/journal-entries/:id/post
func (h *LedgerHandler) PostJournalEntry(c *gin.Context) {
	byID(&h.BaseHandler, c, h.journal.Post)
}

// VoidJournalEntry handles POST /ledger/journal-entries/:id/void
func (h *LedgerHandler) VoidJournalEntry(c *gin.Context) {
	byID(&h.BaseHandler, c, h.journal.Void)
}

// DeleteJournalEntry handles DELETE /ledger/journal-entries/:id
func (h *LedgerHandler) DeleteJournalEntry(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.journal.Delete)
}

// TrialBalance handles GET /ledger/trial-balance
func (h *LedgerHandler) TrialBalance(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	var query ledgerapp.TrialBalanceQuery
	if !h.bindQuery(c, &query) {
		return
	}
	tb, err := h.trialBalance.View(c.Request.Context(), tenantID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tb)
}
