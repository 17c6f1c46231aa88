package ledger

import (
	"context"
	"errors"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/event"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/ledger"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService handles chart-of-accounts operations
type AccountService struct {
	accountRepo    ledger.AccountRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo ledger.AccountRepository, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AccountService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds an account. Codes are unique per tenant.
func (s *AccountService) Create(ctx context.Context, tenantID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	exists, err := s.accountRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Account with this code already exists")
	}
	parent, err := s.parent(ctx, tenantID, req.ParentID)
	if err != nil {
		return nil, err
	}

	account, err := ledger.NewAccount(tenantID, req.Code, req.Name, ledger.AccountType(req.Type), parent)
	if err != nil {
		return nil, err
	}
	account.Description = req.Description
	account.SetCreatedBy(req.CreatedBy)
	return s.save(ctx, account)
}

// GetByID retrieves an account
func (s *AccountService) GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// List retrieves accounts with search, filtering and pagination
func (s *AccountService) List(ctx context.Context, tenantID uuid.UUID, filter AccountListFilter) ([]AccountResponse, int64, error) {
	domainFilter := filter.toDomain()
	accounts, err := s.accountRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accountRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToAccountResponses(accounts), total, nil
}

// ListAll returns every account matching the filter, without paging
func (s *AccountService) ListAll(ctx context.Context, tenantID uuid.UUID, filter AccountListFilter) ([]AccountResponse, error) {
	accounts, err := s.accountRepo.FindAllForTenant(ctx, tenantID, filter.toDomain().WithoutPaging())
	if err != nil {
		return nil, err
	}
	return ToAccountResponses(accounts), nil
}

// Update changes name, description, parent and active flag
func (s *AccountService) Update(ctx context.Context, tenantID, accountID uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	parent, err := s.parent(ctx, tenantID, req.ParentID)
	if err != nil {
		return nil, err
	}
	if err := account.Update(req.Name, req.Description, parent); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		account.SetActive(*req.IsActive)
	}
	return s.save(ctx, account)
}

// Delete removes an account that no journal line or child account references
func (s *AccountService) Delete(ctx context.Context, tenantID, accountID uuid.UUID) error {
	account, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	used, err := s.accountRepo.HasActivity(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if used {
		return shared.NewDomainError("INVALID_STATE", "Account has journal lines or child accounts and cannot be deleted")
	}
	account.MarkDeleted()
	if err := s.accountRepo.DeleteForTenant(ctx, tenantID, accountID); err != nil {
		return err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, account)
	return nil
}

func (s *AccountService) parent(ctx context.Context, tenantID uuid.UUID, parentID *uuid.UUID) (*ledger.Account, error) {
	if parentID == nil {
		return nil, nil
	}
	parent, err := s.accountRepo.FindByIDForTenant(ctx, tenantID, *parentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PARENT", "Parent account does not exist")
		}
		return nil, err
	}
	return parent, nil
}

func (s *AccountService) save(ctx context.Context, account *ledger.Account) (*AccountResponse, error) {
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, account)
	response := ToAccountResponse(account)
	return &response, nil
}
