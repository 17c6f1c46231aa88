package handler

import (
	"context"
	"time"

	exportapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/export"
	identityapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/identity"
	invoicingapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/invoicing"
	partnerapp "github.com/Allanfoulo/sagebridge-app-sub001/internal/application/partner"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCustomerService is a mock implementation of CustomerService
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Create(ctx context.Context, tenantID uuid.UUID, req partnerapp.CreateCustomerRequest) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) List(ctx context.Context, tenantID uuid.UUID, filter partnerapp.ListFilter) ([]partnerapp.CustomerResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partnerapp.CustomerResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerService) Update(ctx context.Context, tenantID, id uuid.UUID, req partnerapp.UpdateCustomerRequest) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, tenantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *MockCustomerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockSalesInvoiceService is a mock implementation of SalesInvoiceService
type MockSalesInvoiceService struct {
	mock.Mock
}

func (m *MockSalesInvoiceService) invoice(args mock.Arguments) (*invoicingapp.SalesInvoiceResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoicingapp.SalesInvoiceResponse), args.Error(1)
}

func (m *MockSalesInvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req invoicingapp.SalesInvoiceRequest) (*invoicingapp.SalesInvoiceResponse, error) {
	return m.invoice(m.Called(ctx, tenantID, req))
}

func (m *MockSalesInvoiceService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.SalesInvoiceResponse, error) {
	return m.invoice(m.Called(ctx, tenantID, id))
}

func (m *MockSalesInvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter invoicingapp.ListFilter) ([]invoicingapp.SalesInvoiceResponse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]invoicingapp.SalesInvoiceResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockSalesInvoiceService) Recent(ctx context.Context, tenantID uuid.UUID, limit int) ([]invoicingapp.SalesInvoiceResponse, error) {
	args := m.Called(ctx, tenantID, limit)
	return args.Get(0).([]invoicingapp.SalesInvoiceResponse), args.Error(1)
}

func (m *MockSalesInvoiceService) Update(ctx context.Context, tenantID, id uuid.UUID, req invoicingapp.SalesInvoiceRequest) (*invoicingapp.SalesInvoiceResponse, error) {
	return m.invoice(m.Called(ctx, tenantID, id, req))
}

func (m *MockSalesInvoiceService) Send(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.SalesInvoiceResponse, error) {
	return m.invoice(m.Called(ctx, tenantID, id))
}

func (m *MockSalesInvoiceService) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, req invoicingapp.PaymentRequest) (*invoicingapp.SalesInvoiceResponse, error) {
	return m.invoice(m.Called(ctx, tenantID, id, req))
}

func (m *MockSalesInvoiceService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*invoicingapp.SalesInvoiceResponse, error) {
	return m.invoice(m.Called(ctx, tenantID, id))
}

func (m *MockSalesInvoiceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockSalesInvoiceService) RenderPDF(ctx context.Context, tenantID, id uuid.UUID, locale string) ([]byte, string, error) {
	args := m.Called(ctx, tenantID, id, locale)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

// MockRecorder captures metric calls
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordPDFRender(ctx context.Context, d time.Duration, err error) {
	m.Called(ctx, d, err)
}

func (m *MockRecorder) RecordExport(ctx context.Context, resource, format string, archived bool) {
	m.Called(ctx, resource, format, archived)
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, tenantID uuid.UUID, req exportapp.Request) (*exportapp.Result, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exportapp.Result), args.Error(1)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) auth(args mock.Arguments) (*identityapp.AuthResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.AuthResponse), args.Error(1)
}

func (m *MockAuthService) SignUp(ctx context.Context, req identityapp.SignUpRequest) (*identityapp.AuthResponse, error) {
	return m.auth(m.Called(ctx, req))
}

func (m *MockAuthService) SignIn(ctx context.Context, req identityapp.SignInRequest) (*identityapp.AuthResponse, error) {
	return m.auth(m.Called(ctx, req))
}

func (m *MockAuthService) Refresh(ctx context.Context, req identityapp.RefreshRequest) (*identityapp.AuthResponse, error) {
	return m.auth(m.Called(ctx, req))
}

func (m *MockAuthService) SignOut(ctx context.Context, claims *auth.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *MockAuthService) Session(ctx context.Context, claims *auth.Claims) (*identityapp.SessionResponse, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.SessionResponse), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, claims *auth.Claims, req identityapp.ChangePasswordRequest) error {
	return m.Called(ctx, claims, req).Error(0)
}
