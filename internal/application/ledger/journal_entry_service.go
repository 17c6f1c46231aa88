package ledger

import (
	"context"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/event"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/ledger"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JournalEntryService handles journal entry business operations
type JournalEntryService struct {
	entryRepo      ledger.JournalEntryRepository
	accountRepo    ledger.AccountRepository
	sequences      shared.SequenceGenerator
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewJournalEntryService creates a new JournalEntryService
func NewJournalEntryService(
	entryRepo ledger.JournalEntryRepository,
	accountRepo ledger.AccountRepository,
	sequences shared.SequenceGenerator,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *JournalEntryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JournalEntryService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		sequences:   sequences,
		txManager:   txManager,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *JournalEntryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create numbers and stores a draft entry. Every line must reference an
// active account of the tenant.
func (s *JournalEntryService) Create(ctx context.Context, tenantID uuid.UUID, req JournalEntryRequest) (*JournalEntryResponse, error) {
	date, err := req.date()
	if err != nil {
		return nil, err
	}
	lines := req.lineInputs()
	if err := s.checkAccounts(ctx, tenantID, lines); err != nil {
		return nil, err
	}

	var entry *ledger.JournalEntry
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		number, err := shared.NextDocumentNumber(txCtx, s.sequences, tenantID, shared.PrefixJournalEntry, date)
		if err != nil {
			return err
		}
		entry, err = ledger.NewJournalEntry(tenantID, number, date, req.Description, req.Reference, lines)
		if err != nil {
			return err
		}
		entry.SetCreatedBy(req.CreatedBy)
		return s.entryRepo.Save(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, entry)

	response := ToJournalEntryResponse(entry)
	return &response, nil
}

// GetByID retrieves a journal entry with its lines
func (s *JournalEntryService) GetByID(ctx context.Context, tenantID, entryID uuid.UUID) (*JournalEntryResponse, error) {
	entry, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	response := ToJournalEntryResponse(entry)
	return &response, nil
}

// List retrieves journal entries with search, filtering and pagination
func (s *JournalEntryService) List(ctx context.Context, tenantID uuid.UUID, filter JournalListFilter) ([]JournalEntryResponse, int64, error) {
	domainFilter := filter.toDomain()
	entries, err := s.entryRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.entryRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToJournalEntryResponses(entries), total, nil
}

// ListAll returns every journal entry matching the filter, without paging
func (s *JournalEntryService) ListAll(ctx context.Context, tenantID uuid.UUID, filter JournalListFilter) ([]JournalEntryResponse, error) {
	entries, err := s.entryRepo.FindAllForTenant(ctx, tenantID, filter.toDomain().WithoutPaging())
	if err != nil {
		return nil, err
	}
	return ToJournalEntryResponses(entries), nil
}

// Update replaces the content of a draft entry
func (s *JournalEntryService) Update(ctx context.Context, tenantID, entryID uuid.UUID, req JournalEntryRequest) (*JournalEntryResponse, error) {
	date, err := req.date()
	if err != nil {
		return nil, err
	}
	lines := req.lineInputs()
	entry, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccounts(ctx, tenantID, lines); err != nil {
		return nil, err
	}
	if err := entry.Update(date, req.Description, req.Reference, lines); err != nil {
		return nil, err
	}
	return s.save(ctx, entry)
}

// Post books a balanced draft entry
func (s *JournalEntryService) Post(ctx context.Context, tenantID, entryID uuid.UUID) (*JournalEntryResponse, error) {
	return s.transition(ctx, tenantID, entryID, (*ledger.JournalEntry).Post)
}

// Void reverses a posted entry
func (s *JournalEntryService) Void(ctx context.Context, tenantID, entryID uuid.UUID) (*JournalEntryResponse, error) {
	return s.transition(ctx, tenantID, entryID, (*ledger.JournalEntry).Void)
}

// Delete removes a draft entry
func (s *JournalEntryService) Delete(ctx context.Context, tenantID, entryID uuid.UUID) error {
	entry, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, entryID)
	if err != nil {
		return err
	}
	if err := entry.MarkDeleted(); err != nil {
		return err
	}
	if err := s.entryRepo.DeleteForTenant(ctx, tenantID, entryID); err != nil {
		return err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, entry)
	return nil
}

func (s *JournalEntryService) checkAccounts(ctx context.Context, tenantID uuid.UUID, lines []ledger.JournalLineInput) error {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok || l.AccountID == uuid.Nil {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	accounts, err := s.accountRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	found := make(map[uuid.UUID]bool, len(accounts))
	for _, a := range accounts {
		found[a.ID] = a.IsActive
	}
	for _, id := range ids {
		active, ok := found[id]
		if !ok {
			return shared.NewDomainError("INVALID_ACCOUNT", "Account "+id.String()+" does not exist")
		}
		if !active {
			return shared.NewDomainError("INVALID_ACCOUNT", "Account "+id.String()+" is inactive")
		}
	}
	return nil
}

func (s *JournalEntryService) transition(ctx context.Context, tenantID, entryID uuid.UUID, apply func(*ledger.JournalEntry, time.Time) error) (*JournalEntryResponse, error) {
	entry, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if err := apply(entry, s.now()); err != nil {
		return nil, err
	}
	return s.save(ctx, entry)
}

func (s *JournalEntryService) save(ctx context.Context, entry *ledger.JournalEntry) (*JournalEntryResponse, error) {
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, entry)
	response := ToJournalEntryResponse(entry)
	return &response, nil
}
