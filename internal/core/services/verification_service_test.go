package services

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newVerificationFixture() (*VerificationService, *MockVendorRepository, *MockCollectorRepository, *MockEventBus) {
	nopLogger := zerolog.Nop()
	vendors := new(MockVendorRepository)
	collectors := new(MockCollectorRepository)
	bus := new(MockEventBus)
	svc := NewVerificationService(&fakeTx{}, vendors, collectors, bus, &nopLogger)
	svc.nowFn = fixedClock
	return svc, vendors, collectors, bus
}

func TestVerificationService_ApproveVendor(t *testing.T) {
	// 1. Setup
	ctx := context.Background()
	svc, vendors, _, bus := newVerificationFixture()
	adminID := uuid.New()
	vendor := &domain.Vendor{ID: uuid.New(), UserID: uuid.New(), CompanyName: "GreenCycle", VerificationStatus: domain.StatusPending}

	vendors.On("GetForUpdate", ctx, vendor.ID).Return(vendor, nil)
	vendors.On("Update", ctx, vendor).Return(nil)
	bus.On("Publish", ctx, ports.TopicVendorStatusChanged, mock.MatchedBy(func(e ports.StatusChangedEvent) bool {
		return e.From == domain.StatusPending && e.To == domain.StatusApproved && e.AdminID == adminID
	})).Return(nil)

	// 2. Execute
	res, err := svc.ApplyVendorAction(ctx, adminID, vendor.ID, domain.ActionApprove)

	// 3. Assert
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, res.Status)
	assert.Contains(t, res.Message, "GreenCycle approved")
	assert.True(t, vendor.IsActive)
	assert.True(t, vendor.LicenseVerified)
	vendors.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestVerificationService_IllegalVendorActionPersistsNothing(t *testing.T) {
	ctx := context.Background()
	svc, vendors, _, bus := newVerificationFixture()
	vendor := &domain.Vendor{ID: uuid.New(), VerificationStatus: domain.StatusPending}

	vendors.On("GetForUpdate", ctx, vendor.ID).Return(vendor, nil)

	_, err := svc.ApplyVendorAction(ctx, uuid.New(), vendor.ID, domain.ActionUnsuspend)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	vendors.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerificationService_VendorNotFound(t *testing.T) {
	ctx := context.Background()
	svc, vendors, _, _ := newVerificationFixture()
	id := uuid.New()
	vendors.On("GetForUpdate", ctx, id).Return(nil, domain.ErrNotFound)

	_, err := svc.ApplyVendorAction(ctx, uuid.New(), id, domain.ActionApprove)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerificationService_SuspendVendorStampsDate(t *testing.T) {
	ctx := context.Background()
	svc, vendors, _, bus := newVerificationFixture()
	vendor := &domain.Vendor{ID: uuid.New(), VerificationStatus: domain.StatusApproved, IsActive: true}

	vendors.On("GetForUpdate", ctx, vendor.ID).Return(vendor, nil)
	vendors.On("Update", ctx, vendor).Return(nil)
	bus.On("Publish", ctx, ports.TopicVendorStatusChanged, mock.Anything).Return(nil)

	res, err := svc.ApplyVendorAction(ctx, uuid.New(), vendor.ID, domain.ActionSuspend)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuspended, res.Status)
	assert.False(t, vendor.IsActive)
	require.NotNil(t, vendor.LastSuspensionDate)
	assert.Equal(t, fixedNow, *vendor.LastSuspensionDate)
}

func TestVerificationService_ApproveCollectorMissingDocuments(t *testing.T) {
	// 1. Setup: driving licence back side is missing
	ctx := context.Background()
	svc, _, collectors, bus := newVerificationFixture()
	collector := &domain.Collector{
		ID:                   uuid.New(),
		VerificationStatus:   domain.StatusPending,
		VehicleType:          domain.VehicleBicycle,
		ProfilePhoto:         "p.jpg",
		DrivingLicenseFront:  "f.jpg",
		DrivingLicenseNumber: "MH0120230001234",
	}

	collectors.On("GetForUpdate", ctx, collector.ID).Return(collector, nil)
	collectors.On("Update", ctx, collector).Return(nil)
	bus.On("Publish", ctx, ports.TopicCollectorStatusChanged, mock.Anything).Return(nil)

	// 2. Execute
	res, err := svc.ApplyCollectorAction(ctx, uuid.New(), collector.ID, domain.ActionApprove, "")

	// 3. Assert
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDocumentsPending, res.Status)
	assert.Contains(t, res.Message, "driving_license_back")
	assert.False(t, collector.IsVerified)
	assert.False(t, collector.IsAvailable)
}

func TestVerificationService_BlacklistCollector(t *testing.T) {
	ctx := context.Background()
	svc, _, collectors, bus := newVerificationFixture()
	collector := &domain.Collector{ID: uuid.New(), VerificationStatus: domain.StatusApproved, IsVerified: true, IsAvailable: true}

	collectors.On("GetForUpdate", ctx, collector.ID).Return(collector, nil)
	collectors.On("Update", ctx, collector).Return(nil)
	bus.On("Publish", ctx, ports.TopicCollectorStatusChanged, mock.Anything).Return(nil)

	res, err := svc.ApplyCollectorAction(ctx, uuid.New(), collector.ID, domain.ActionBlacklist, "stolen goods")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBlacklisted, res.Status)
	assert.True(t, collector.IsBlacklisted)
	assert.False(t, collector.IsAvailable)
	assert.Equal(t, "stolen goods", collector.BlacklistReason)
}

func TestVerificationService_PublishFailureDoesNotFailAction(t *testing.T) {
	ctx := context.Background()
	svc, vendors, _, bus := newVerificationFixture()
	vendor := &domain.Vendor{ID: uuid.New(), VerificationStatus: domain.StatusPending}

	vendors.On("GetForUpdate", ctx, vendor.ID).Return(vendor, nil)
	vendors.On("Update", ctx, vendor).Return(nil)
	bus.On("Publish", ctx, ports.TopicVendorStatusChanged, mock.Anything).Return(assert.AnError)

	res, err := svc.ApplyVendorAction(ctx, uuid.New(), vendor.ID, domain.ActionReview)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, res.Status)
}

func TestVerificationService_PendingLists(t *testing.T) {
	ctx := context.Background()
	svc, vendors, collectors, _ := newVerificationFixture()

	vendors.On("ListByStatus", ctx, []domain.VerificationStatus{domain.StatusPending, domain.StatusUnderReview}).
		Return([]*domain.Vendor{{CompanyName: "A"}}, nil)
	collectors.On("ListByStatus", ctx, []domain.VerificationStatus{domain.StatusPending, domain.StatusDocumentsPending, domain.StatusUnderReview}).
		Return([]*domain.Collector{{}, {}}, nil)

	vs, err := svc.PendingVendors(ctx)
	require.NoError(t, err)
	assert.Len(t, vs, 1)

	cs, err := svc.PendingCollectors(ctx)
	require.NoError(t, err)
	assert.Len(t, cs, 2)
}

func TestVerificationService_SetForensicsScore(t *testing.T) {
	ctx := context.Background()
	svc, vendors, _, _ := newVerificationFixture()
	vendor := &domain.Vendor{ID: uuid.New(), Rating: dec("5"), TrustScore: dec("70")}

	vendors.On("GetForUpdate", ctx, vendor.ID).Return(vendor, nil)
	vendors.On("Update", ctx, vendor).Return(nil).Once()

	v, err := svc.SetForensicsScore(ctx, vendor.ID, dec("85.5"))
	require.NoError(t, err)
	assert.True(t, v.ForensicsScore.Equal(dec("85.5")))
	assert.True(t, v.TrustScore.Equal(dec("70")), "trust score waits for recalculation")

	for _, bad := range []string{"-1", "100.01"} {
		_, err := svc.SetForensicsScore(ctx, vendor.ID, dec(bad))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, bad)
	}
	vendors.AssertNumberOfCalls(t, "Update", 1)
}

func TestVerificationService_Resets(t *testing.T) {
	ctx := context.Background()
	svc, vendors, collectors, _ := newVerificationFixture()
	vendor := &domain.Vendor{ID: uuid.New(), Rating: dec("2"), SuccessfulEvaluations: 3, DisputedEvaluations: 1}
	collector := &domain.Collector{ID: uuid.New(), Rating: dec("1"), TotalDeliveries: 9}

	vendors.On("GetForUpdate", ctx, vendor.ID).Return(vendor, nil)
	vendors.On("Update", ctx, vendor).Return(nil)
	collectors.On("GetForUpdate", ctx, collector.ID).Return(collector, nil)
	collectors.On("Update", ctx, collector).Return(nil)

	v, err := svc.ResetVendorRating(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, v.Rating.Equal(dec("5")))
	assert.Zero(t, v.DisputedEvaluations)

	c, err := svc.ResetCollectorStats(ctx, collector.ID)
	require.NoError(t, err)
	assert.True(t, c.Rating.Equal(dec("5")))
	assert.Zero(t, c.TotalDeliveries)
}
