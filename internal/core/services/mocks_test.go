package services

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

// fakeTx runs the callback inline and counts invocations.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) GetByTelegramID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockVendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) Create(ctx context.Context, v *domain.Vendor) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVendorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}
func (m *MockVendorRepository) GetByUserID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}
func (m *MockVendorRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}
func (m *MockVendorRepository) Update(ctx context.Context, v *domain.Vendor) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVendorRepository) ListByStatus(ctx context.Context, statuses ...domain.VerificationStatus) ([]*domain.Vendor, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vendor), args.Error(1)
}
func (m *MockVendorRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
func (m *MockVendorRepository) ListEligible(ctx context.Context) ([]*domain.Vendor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vendor), args.Error(1)
}
func (m *MockVendorRepository) CountByStatus(ctx context.Context, status domain.VerificationStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}
func (m *MockVendorRepository) ReserveWorkload(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockVendorRepository) ReleaseWorkload(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCollectorRepository
type MockCollectorRepository struct {
	mock.Mock
}

func (m *MockCollectorRepository) Create(ctx context.Context, c *domain.Collector) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCollectorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Collector, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collector), args.Error(1)
}
func (m *MockCollectorRepository) GetByUserID(ctx context.Context, id uuid.UUID) (*domain.Collector, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collector), args.Error(1)
}
func (m *MockCollectorRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Collector, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collector), args.Error(1)
}
func (m *MockCollectorRepository) Update(ctx context.Context, c *domain.Collector) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCollectorRepository) ListByStatus(ctx context.Context, statuses ...domain.VerificationStatus) ([]*domain.Collector, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Collector), args.Error(1)
}
func (m *MockCollectorRepository) ListEligible(ctx context.Context, maxPickups int) ([]*domain.Collector, error) {
	args := m.Called(ctx, maxPickups)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Collector), args.Error(1)
}
func (m *MockCollectorRepository) ReserveSlot(ctx context.Context, id uuid.UUID, maxPickups int) error {
	args := m.Called(ctx, id, maxPickups)
	return args.Error(0)
}
func (m *MockCollectorRepository) ReleaseSlot(ctx context.Context, id uuid.UUID, delivered bool) error {
	args := m.Called(ctx, id, delivered)
	return args.Error(0)
}

// MockProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProductRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.Product, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}
func (m *MockProductRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, statuses ...domain.ProductStatus) ([]*domain.Product, error) {
	args := m.Called(ctx, vendorID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}
func (m *MockProductRepository) ListByCollector(ctx context.Context, collectorID uuid.UUID, statuses ...domain.ProductStatus) ([]*domain.Product, error) {
	args := m.Called(ctx, collectorID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}
func (m *MockProductRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockProductRepository) CountDeliveredSince(ctx context.Context, collectorID uuid.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, collectorID, since)
	return args.Int(0), args.Error(1)
}

// MockPickupRepository
type MockPickupRepository struct {
	mock.Mock
}

func (m *MockPickupRepository) Create(ctx context.Context, req *domain.PickupRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockPickupRepository) GetByProductID(ctx context.Context, productID uuid.UUID) (*domain.PickupRequest, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PickupRequest), args.Error(1)
}
func (m *MockPickupRepository) Update(ctx context.Context, req *domain.PickupRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockPickupRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID, statuses ...domain.PickupStatus) (int, error) {
	args := m.Called(ctx, sellerID, statuses)
	return args.Int(0), args.Error(1)
}

// MockFraudFlagRepository
type MockFraudFlagRepository struct {
	mock.Mock
}

func (m *MockFraudFlagRepository) Create(ctx context.Context, f *domain.FraudFlag) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}
func (m *MockFraudFlagRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FraudFlag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FraudFlag), args.Error(1)
}
func (m *MockFraudFlagRepository) MarkReviewed(ctx context.Context, f *domain.FraudFlag) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}
func (m *MockFraudFlagRepository) ListOpen(ctx context.Context) ([]*domain.FraudFlag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FraudFlag), args.Error(1)
}
func (m *MockFraudFlagRepository) ListRecentOpen(ctx context.Context, limit int) ([]*domain.FraudFlag, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FraudFlag), args.Error(1)
}
func (m *MockFraudFlagRepository) CountOpen(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockFraudFlagRepository) CountByVendorSince(ctx context.Context, vendorID uuid.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, vendorID, since)
	return args.Int(0), args.Error(1)
}

// MockEventBus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	args := m.Called(ctx, topic, data)
	return args.Error(0)
}
func (m *MockEventBus) Subscribe(topic string, handler ports.EventHandler) {
	m.Called(topic, handler)
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

// MockPasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}
func (m *MockPasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

// MockTokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(user *domain.User) (string, time.Time, error) {
	args := m.Called(user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockTokenIssuer) Parse(token string) (*ports.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.TokenClaims), args.Error(1)
}

// MockOTPStore
type MockOTPStore struct {
	mock.Mock
}

func (m *MockOTPStore) Save(ctx context.Context, userID uuid.UUID, code string, ttl time.Duration) error {
	args := m.Called(ctx, userID, code, ttl)
	return args.Error(0)
}
func (m *MockOTPStore) Get(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
func (m *MockOTPStore) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, user *domain.User, subject, body string) error {
	args := m.Called(ctx, user, subject, body)
	return args.Error(0)
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
