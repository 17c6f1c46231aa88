package ledger

import (
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
)

// Aggregate types
const (
	AggregateTypeAccount      = "LedgerAccount"
	AggregateTypeJournalEntry = "JournalEntry"
)

// Event types
const (
	EventTypeAccountCreated      = "LedgerAccountCreated"
	EventTypeAccountUpdated      = "LedgerAccountUpdated"
	EventTypeAccountDeleted      = "LedgerAccountDeleted"
	EventTypeJournalEntryCreated = "JournalEntryCreated"
	EventTypeJournalEntryUpdated = "JournalEntryUpdated"
	EventTypeJournalEntryDeleted = "JournalEntryDeleted"
)

// AccountEvent snapshots an account
type AccountEvent struct {
	shared.BaseDomainEvent
	Account Account `json:"account"`
}

// NewAccountEvent creates an account event
func NewAccountEvent(eventType string, a *Account) *AccountEvent {
	snapshot := *a
	snapshot.ClearDomainEvents()
	return &AccountEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeAccount, a.ID, a.TenantID),
		Account:         snapshot,
	}
}

// Snapshot implements shared.SnapshotEvent
func (e *AccountEvent) Snapshot() any {
	return e.Account
}

// JournalEntryEvent snapshots a journal entry
type JournalEntryEvent struct {
	shared.BaseDomainEvent
	Entry JournalEntry `json:"entry"`
}

// NewJournalEntryEvent creates a journal entry event
func NewJournalEntryEvent(eventType string, je *JournalEntry) *JournalEntryEvent {
	snapshot := *je
	snapshot.ClearDomainEvents()
	return &JournalEntryEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeJournalEntry, je.ID, je.TenantID),
		Entry:           snapshot,
	}
}

// Snapshot implements shared.SnapshotEvent
func (e *JournalEntryEvent) Snapshot() any {
	return e.Entry
}
