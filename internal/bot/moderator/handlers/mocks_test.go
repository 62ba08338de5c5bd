package handlers

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

// MockBotClient
type MockBotClient struct {
	mock.Mock
}

func (m *MockBotClient) SendMessage(ctx context.Context, params ports.SendMessageParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}
func (m *MockBotClient) EditMessageText(ctx context.Context, params ports.EditMessageParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
func (m *MockBotClient) AnswerCallbackQuery(ctx context.Context, params ports.AnswerCallbackParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
func (m *MockBotClient) SetMenuCommands(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
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

// MockEventBus stores subscribed handlers so tests can fire them.
type MockEventBus struct {
	mock.Mock
	Handlers map[string]ports.EventHandler
}

func (m *MockEventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	args := m.Called(ctx, topic, data)
	return args.Error(0)
}
func (m *MockEventBus) Subscribe(topic string, handler ports.EventHandler) {
	if m.Handlers == nil {
		m.Handlers = make(map[string]ports.EventHandler)
	}
	m.Handlers[topic] = handler
}

// --- Stubs ---
// Only the lookups the handlers perform are implemented; anything else panics.

type stubUsers struct {
	ports.UserRepository
	byID map[uuid.UUID]*domain.User
}

func (s stubUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

type stubVendors struct {
	ports.VendorRepository
	byID map[uuid.UUID]*domain.Vendor
}

func (s stubVendors) GetByID(_ context.Context, id uuid.UUID) (*domain.Vendor, error) {
	if v, ok := s.byID[id]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

type stubProducts struct {
	ports.ProductRepository
	byID map[uuid.UUID]*domain.Product
}

func (s stubProducts) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func strPtr(s string) *string { return &s }

func testAdmin() *domain.User {
	return &domain.User{ID: uuid.New(), Role: domain.RoleAdmin, IsActive: true, FirstName: "Asha", LastName: "Rao"}
}
