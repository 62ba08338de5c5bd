package ports

import (
	"ERecyclo/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// FraudFlagRepository defines persistence for fraud flags.
type FraudFlagRepository interface {
	// Create returns domain.ErrAlreadyExists if the product is already flagged.
	Create(ctx context.Context, flag *domain.FraudFlag) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FraudFlag, error)

	// MarkReviewed persists the admin verdict only while admin_reviewed is
	// still false, otherwise it returns domain.ErrAlreadyReviewed.
	MarkReviewed(ctx context.Context, flag *domain.FraudFlag) error

	// ListOpen returns unreviewed flags, highest risk first.
	ListOpen(ctx context.Context) ([]*domain.FraudFlag, error)
	// ListRecentOpen returns the newest unreviewed flags.
	ListRecentOpen(ctx context.Context, limit int) ([]*domain.FraudFlag, error)
	CountOpen(ctx context.Context) (int, error)
	CountByVendorSince(ctx context.Context, vendorID uuid.UUID, since time.Time) (int, error)
}
