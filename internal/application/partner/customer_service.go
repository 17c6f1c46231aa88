package partner

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/event"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	usage          partner.UsageChecker
	phones         partner.PhoneNormalizer
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo partner.CustomerRepository,
	usage partner.UsageChecker,
	phones partner.PhoneNormalizer,
	logger *zap.Logger,
) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo: customerRepo,
		usage:        usage,
		phones:       phones,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for the change feed
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
	}

	customer, err := partner.NewCustomer(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := customer.UpdateDetails(req.details(), s.phones); err != nil {
		return nil, err
	}
	if req.CreditLimit != nil {
		if err := customer.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}
	customer.SetCreatedBy(req.CreatedBy)
	// One created event for the whole construction.
	customer.ClearDomainEvents()
	customer.AddDomainEvent(partner.NewCustomerEvent(partner.EventTypeCustomerCreated, customer))

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with search, filtering and pagination
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := filter.toDomain("name")

	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

// ListAll returns every customer matching the search, without paging
func (s *CustomerService) ListAll(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]CustomerResponse, error) {
	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, filter.toDomain("name").WithoutPaging())
	if err != nil {
		return nil, err
	}
	return ToCustomerResponses(customers), nil
}

// Update replaces the editable fields of a customer
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.UpdateDetails(req.details(), s.phones); err != nil {
		return nil, err
	}
	if req.CreditLimit != nil && !req.CreditLimit.Equal(customer.CreditLimit) {
		if err := customer.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}
	return s.save(ctx, customer)
}

// Activate marks a customer active
func (s *CustomerService) Activate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.Activate(); err != nil {
		return nil, err
	}
	return s.save(ctx, customer)
}

// Deactivate marks a customer inactive
func (s *CustomerService) Deactivate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.Deactivate(); err != nil {
		return nil, err
	}
	return s.save(ctx, customer)
}

// Delete removes a customer that no invoice references
func (s *CustomerService) Delete(ctx context.Context, tenantID, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	if s.usage != nil {
		inUse, err := s.usage.CustomerInUse(ctx, tenantID, customerID)
		if err != nil {
			return err
		}
		if inUse {
			return shared.NewDomainError("INVALID_STATE", "Customer is referenced by invoices and cannot be deleted")
		}
	}
	if err := s.customerRepo.DeleteForTenant(ctx, tenantID, customerID); err != nil {
		return err
	}
	customer.MarkDeleted()
	event.PublishPending(ctx, s.eventPublisher, s.logger, customer)
	return nil
}

func (s *CustomerService) save(ctx context.Context, customer *partner.Customer) (*CustomerResponse, error) {
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, customer)
	response := ToCustomerResponse(customer)
	return &response, nil
}
