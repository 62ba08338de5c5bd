package ports

import (
	"ERecyclo/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// CollectorRepository defines persistence for collector profiles.
type CollectorRepository interface {
	Create(ctx context.Context, collector *domain.Collector) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Collector, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Collector, error)

	// GetForUpdate locks the collector row for the surrounding transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Collector, error)

	Update(ctx context.Context, collector *domain.Collector) error

	ListByStatus(ctx context.Context, statuses ...domain.VerificationStatus) ([]*domain.Collector, error)

	// ListEligible returns verified, available collectors below the pickup limit.
	ListEligible(ctx context.Context, maxPickups int) ([]*domain.Collector, error)

	// ReserveSlot increments current_pickups only while the collector is
	// eligible. It returns domain.ErrConflict when no row matched.
	ReserveSlot(ctx context.Context, id uuid.UUID, maxPickups int) error

	// ReleaseSlot decrements current_pickups if positive. When delivered is
	// true total_deliveries is incremented in the same statement.
	ReleaseSlot(ctx context.Context, id uuid.UUID, delivered bool) error
}
