package ports

import (
	"ERecyclo/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// VendorRepository defines persistence for vendor profiles.
type VendorRepository interface {
	Create(ctx context.Context, vendor *domain.Vendor) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Vendor, error)

	// GetForUpdate locks the vendor row for the surrounding transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Vendor, error)

	Update(ctx context.Context, vendor *domain.Vendor) error

	// ListByStatus returns vendors in any of the given states, oldest first.
	ListByStatus(ctx context.Context, statuses ...domain.VerificationStatus) ([]*domain.Vendor, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	ListEligible(ctx context.Context) ([]*domain.Vendor, error)
	CountByStatus(ctx context.Context, status domain.VerificationStatus) (int, error)

	// ReserveWorkload adds one unit of work if the vendor can still accept it.
	// It returns domain.ErrConflict when the conditional update matches no row.
	ReserveWorkload(ctx context.Context, id uuid.UUID) error

	// ReleaseWorkload removes one unit of work, never going below zero.
	ReleaseWorkload(ctx context.Context, id uuid.UUID) error
}
