package httpapi

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RegisterCustomer(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) RegisterVendor(ctx context.Context, in ports.VendorRegistration) (*domain.User, *domain.Vendor, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*domain.Vendor), args.Error(2)
}
func (m *MockAuthService) RegisterCollector(ctx context.Context, in ports.CollectorRegistration) (*domain.User, *domain.Collector, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*domain.Collector), args.Error(2)
}
func (m *MockAuthService) Login(ctx context.Context, portal domain.Role, email, password string) (*ports.Session, error) {
	args := m.Called(ctx, portal, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Session), args.Error(1)
}
func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) RequestEmailOTP(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockAuthService) VerifyEmailOTP(ctx context.Context, userID uuid.UUID, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

// MockProductService
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) product(args mock.Arguments) (*domain.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductService) products(args mock.Arguments) ([]*domain.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}
func (m *MockProductService) Upload(ctx context.Context, sellerID uuid.UUID, in ports.UploadProductInput) (*domain.Product, error) {
	return m.product(m.Called(ctx, sellerID, in))
}
func (m *MockProductService) RequestPickup(ctx context.Context, sellerID, productID uuid.UUID, in ports.PickupInput) (*domain.PickupRequest, error) {
	args := m.Called(ctx, sellerID, productID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickupRequest), args.Error(1)
}
func (m *MockProductService) ListMine(ctx context.Context, sellerID uuid.UUID) ([]*domain.Product, error) {
	return m.products(m.Called(ctx, sellerID))
}
func (m *MockProductService) Cancel(ctx context.Context, sellerID, productID uuid.UUID) (*domain.Product, error) {
	return m.product(m.Called(ctx, sellerID, productID))
}
func (m *MockProductService) MarkPickedUp(ctx context.Context, collectorUserID, productID uuid.UUID) (*domain.Product, error) {
	return m.product(m.Called(ctx, collectorUserID, productID))
}
func (m *MockProductService) MarkDelivered(ctx context.Context, collectorUserID, productID uuid.UUID) (*domain.Product, error) {
	return m.product(m.Called(ctx, collectorUserID, productID))
}
func (m *MockProductService) ToggleAvailability(ctx context.Context, collectorUserID uuid.UUID, available bool) (*domain.Collector, error) {
	args := m.Called(ctx, collectorUserID, available)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collector), args.Error(1)
}
func (m *MockProductService) ListAssigned(ctx context.Context, vendorUserID uuid.UUID) ([]*domain.Product, error) {
	return m.products(m.Called(ctx, vendorUserID))
}
func (m *MockProductService) Evaluate(ctx context.Context, vendorUserID, productID uuid.UUID, in ports.EvaluationInput) (ports.EvaluationResult, error) {
	args := m.Called(ctx, vendorUserID, productID, in)
	return args.Get(0).(ports.EvaluationResult), args.Error(1)
}
func (m *MockProductService) Detail(ctx context.Context, viewer *domain.User, productID uuid.UUID) (*ports.ProductDetail, error) {
	args := m.Called(ctx, viewer, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ProductDetail), args.Error(1)
}

// MockVerificationService
type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) ApplyVendorAction(ctx context.Context, adminID, vendorID uuid.UUID, action domain.VerificationAction) (ports.VerificationResult, error) {
	args := m.Called(ctx, adminID, vendorID, action)
	return args.Get(0).(ports.VerificationResult), args.Error(1)
}
func (m *MockVerificationService) ApplyCollectorAction(ctx context.Context, adminID, collectorID uuid.UUID, action domain.VerificationAction, reason string) (ports.VerificationResult, error) {
	args := m.Called(ctx, adminID, collectorID, action, reason)
	return args.Get(0).(ports.VerificationResult), args.Error(1)
}
func (m *MockVerificationService) PendingVendors(ctx context.Context) ([]*domain.Vendor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vendor), args.Error(1)
}
func (m *MockVerificationService) PendingCollectors(ctx context.Context) ([]*domain.Collector, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Collector), args.Error(1)
}
func (m *MockVerificationService) ResetVendorRating(ctx context.Context, vendorID uuid.UUID) (*domain.Vendor, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}
func (m *MockVerificationService) SetForensicsScore(ctx context.Context, vendorID uuid.UUID, score decimal.Decimal) (*domain.Vendor, error) {
	args := m.Called(ctx, vendorID, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}
func (m *MockVerificationService) ResetCollectorStats(ctx context.Context, collectorID uuid.UUID) (*domain.Collector, error) {
	args := m.Called(ctx, collectorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collector), args.Error(1)
}

// MockScoringService
type MockScoringService struct {
	mock.Mock
}

func (m *MockScoringService) RecalculateTrustScores(ctx context.Context, vendorIDs []uuid.UUID) (int, error) {
	args := m.Called(ctx, vendorIDs)
	return args.Int(0), args.Error(1)
}

// MockFraudService
type MockFraudService struct {
	mock.Mock
}

func (m *MockFraudService) RaiseFlag(ctx context.Context, p *domain.Product, risk decimal.Decimal, details domain.VarianceDetails) (*domain.FraudFlag, error) {
	args := m.Called(ctx, p, risk, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FraudFlag), args.Error(1)
}
func (m *MockFraudService) ResolveFlag(ctx context.Context, adminID, flagID uuid.UUID, decision domain.FraudDecision, notes string) (*domain.FraudFlag, error) {
	args := m.Called(ctx, adminID, flagID, decision, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FraudFlag), args.Error(1)
}
func (m *MockFraudService) OpenFlags(ctx context.Context) ([]*domain.FraudFlag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FraudFlag), args.Error(1)
}

// MockAssignmentService
type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) EligibleCollectors(ctx context.Context) ([]*domain.Collector, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Collector), args.Error(1)
}
func (m *MockAssignmentService) EligibleVendors(ctx context.Context) ([]*domain.Vendor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vendor), args.Error(1)
}
func (m *MockAssignmentService) AssignVendor(ctx context.Context, productID, vendorID uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, productID, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockAssignmentService) AssignCollector(ctx context.Context, productID, collectorID uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, productID, collectorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

// MockDashboardService
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Customer(ctx context.Context, seller *domain.User) (*ports.CustomerDashboard, error) {
	args := m.Called(ctx, seller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.CustomerDashboard), args.Error(1)
}
func (m *MockDashboardService) Admin(ctx context.Context) (*ports.AdminDashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.AdminDashboard), args.Error(1)
}
func (m *MockDashboardService) Vendor(ctx context.Context, vendorUserID uuid.UUID) (*ports.VendorDashboard, error) {
	args := m.Called(ctx, vendorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.VendorDashboard), args.Error(1)
}
func (m *MockDashboardService) Collector(ctx context.Context, collectorUserID uuid.UUID) (*ports.CollectorDashboard, error) {
	args := m.Called(ctx, collectorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.CollectorDashboard), args.Error(1)
}
