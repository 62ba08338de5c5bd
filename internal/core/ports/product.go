package ports

import (
	"ERecyclo/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// ProductRepository defines persistence for uploaded products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error

	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.Product, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, statuses ...domain.ProductStatus) ([]*domain.Product, error)
	ListByCollector(ctx context.Context, collectorID uuid.UUID, statuses ...domain.ProductStatus) ([]*domain.Product, error)

	Count(ctx context.Context) (int, error)
	CountDeliveredSince(ctx context.Context, collectorID uuid.UUID, since time.Time) (int, error)
}

// PickupRepository defines persistence for pickup requests.
type PickupRepository interface {
	// Create assigns the generated bigserial id to the request.
	Create(ctx context.Context, req *domain.PickupRequest) error
	GetByProductID(ctx context.Context, productID uuid.UUID) (*domain.PickupRequest, error)
	Update(ctx context.Context, req *domain.PickupRequest) error
	CountBySeller(ctx context.Context, sellerID uuid.UUID, statuses ...domain.PickupStatus) (int, error)
}
