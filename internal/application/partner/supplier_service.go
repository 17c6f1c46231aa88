package partner

import (
	"context"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/application/event"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo   partner.SupplierRepository
	usage          partner.UsageChecker
	phones         partner.PhoneNormalizer
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(
	supplierRepo partner.SupplierRepository,
	usage partner.UsageChecker,
	phones partner.PhoneNormalizer,
	logger *zap.Logger,
) *SupplierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{
		supplierRepo: supplierRepo,
		usage:        usage,
		phones:       phones,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for the change feed
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	exists, err := s.supplierRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this code already exists")
	}

	supplier, err := partner.NewSupplier(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := supplier.UpdateDetails(req.details(), req.ContactName, s.phones); err != nil {
		return nil, err
	}
	if req.PaymentTermsDays != nil {
		if err := supplier.SetPaymentTerms(*req.PaymentTermsDays); err != nil {
			return nil, err
		}
	}
	supplier.SetCreatedBy(req.CreatedBy)
	// One created event for the whole construction.
	supplier.ClearDomainEvents()
	supplier.AddDomainEvent(partner.NewSupplierEvent(partner.EventTypeSupplierCreated, supplier))

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers with search, filtering and pagination
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]SupplierResponse, int64, error) {
	domainFilter := filter.toDomain("name")

	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSupplierResponses(suppliers), total, nil
}

// ListAll returns every supplier matching the search, without paging
func (s *SupplierService) ListAll(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]SupplierResponse, error) {
	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, filter.toDomain("name").WithoutPaging())
	if err != nil {
		return nil, err
	}
	return ToSupplierResponses(suppliers), nil
}

// Update replaces the editable fields of a supplier
func (s *SupplierService) Update(ctx context.Context, tenantID, supplierID uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	if err := supplier.UpdateDetails(req.details(), req.ContactName, s.phones); err != nil {
		return nil, err
	}
	if req.PaymentTermsDays != nil && *req.PaymentTermsDays != supplier.PaymentTermsDays {
		if err := supplier.SetPaymentTerms(*req.PaymentTermsDays); err != nil {
			return nil, err
		}
	}
	return s.save(ctx, supplier)
}

// Activate marks a supplier active
func (s *SupplierService) Activate(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	if err := supplier.Activate(); err != nil {
		return nil, err
	}
	return s.save(ctx, supplier)
}

// Deactivate marks a supplier inactive
func (s *SupplierService) Deactivate(ctx context.Context, tenantID, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}
	if err := supplier.Deactivate(); err != nil {
		return nil, err
	}
	return s.save(ctx, supplier)
}

// Delete removes a supplier that no invoice or purchase order references
func (s *SupplierService) Delete(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return err
	}
	if s.usage != nil {
		inUse, err := s.usage.SupplierInUse(ctx, tenantID, supplierID)
		if err != nil {
			return err
		}
		if inUse {
			return shared.NewDomainError("INVALID_STATE", "Supplier is referenced by invoices or purchase orders and cannot be deleted")
		}
	}
	if err := s.supplierRepo.DeleteForTenant(ctx, tenantID, supplierID); err != nil {
		return err
	}
	supplier.MarkDeleted()
	event.PublishPending(ctx, s.eventPublisher, s.logger, supplier)
	return nil
}

func (s *SupplierService) save(ctx context.Context, supplier *partner.Supplier) (*SupplierResponse, error) {
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	event.PublishPending(ctx, s.eventPublisher, s.logger, supplier)
	response := ToSupplierResponse(supplier)
	return &response, nil
}
