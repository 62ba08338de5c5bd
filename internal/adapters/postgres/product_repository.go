package postgres

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type productRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.ProductRepository = (*productRepository)(nil)

// NewProductRepository creates a repository for uploaded products.
func NewProductRepository(db *DB, baseLogger *zerolog.Logger) ports.ProductRepository {
	return &productRepository{
		db:  db,
		log: baseLogger.With().Str("component", "product_repo").Logger(),
	}
}

const productQueryCols = `
	id, seller_id, name, description, category, image, weight_approx, status,
	assigned_vendor_id, assigned_collector_id, estimated_value, final_value,
	risk_score, evaluation_notes, vendor_assigned_at, assigned_at, picked_up_at,
	delivered_at, completed_at, created_at, updated_at
`

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (
			id, seller_id, name, description, category, image, weight_approx,
			status, estimated_value
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.conn(ctx).QueryRow(ctx, query,
		p.ID,
		p.SellerID,
		p.Name,
		p.Description,
		p.Category,
		p.Image,
		p.WeightApprox,
		p.Status,
		p.EstimatedValue,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("seller_id", p.SellerID.String()).Msg("Failed to insert product")
		return mapErr(err, "create product")
	}
	return nil
}

func (r *productRepository) scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.SellerID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Image,
		&p.WeightApprox,
		&p.Status,
		&p.AssignedVendorID,
		&p.AssignedCollectorID,
		&p.EstimatedValue,
		&p.FinalValue,
		&p.RiskScore,
		&p.EvaluationNotes,
		&p.VendorAssignedAt,
		&p.AssignedAt,
		&p.PickedUpAt,
		&p.DeliveredAt,
		&p.CompletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.log.Error().Err(err).Msg("Failed to scan product row")
		}
		return nil, mapErr(err, "product")
	}
	return &p, nil
}

func (r *productRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query products")
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productQueryCols + ` FROM products WHERE id = $1`
	return r.scanProduct(r.db.conn(ctx).QueryRow(ctx, query, id))
}

func (r *productRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productQueryCols + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanProduct(r.db.conn(ctx).QueryRow(ctx, query, id))
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products SET
			name = $2, description = $3, category = $4, image = $5, weight_approx = $6,
			status = $7, assigned_vendor_id = $8, assigned_collector_id = $9,
			estimated_value = $10, final_value = $11, risk_score = $12,
			evaluation_notes = $13, vendor_assigned_at = $14, assigned_at = $15,
			picked_up_at = $16, delivered_at = $17, completed_at = $18, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.conn(ctx).QueryRow(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Category,
		p.Image,
		p.WeightApprox,
		p.Status,
		p.AssignedVendorID,
		p.AssignedCollectorID,
		p.EstimatedValue,
		p.FinalValue,
		p.RiskScore,
		p.EvaluationNotes,
		p.VendorAssignedAt,
		p.AssignedAt,
		p.PickedUpAt,
		p.DeliveredAt,
		p.CompletedAt,
	).Scan(&p.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("product_id", p.ID.String()).Msg("Failed to update product")
		return mapErr(err, "update product")
	}
	return nil
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*domain.Product, error) {
	query := `SELECT ` + productQueryCols + ` FROM products WHERE seller_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, sellerID)
}

// ListByVendor returns every product of the vendor when no status is given.
func (r *productRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, statuses ...domain.ProductStatus) ([]*domain.Product, error) {
	query := `SELECT ` + productQueryCols + ` FROM products
		WHERE assigned_vendor_id = $1 AND (cardinality($2::text[]) = 0 OR status = ANY($2))
		ORDER BY created_at DESC`
	return r.list(ctx, query, vendorID, productStatusStrings(statuses))
}

func (r *productRepository) ListByCollector(ctx context.Context, collectorID uuid.UUID, statuses ...domain.ProductStatus) ([]*domain.Product, error) {
	query := `SELECT ` + productQueryCols + ` FROM products
		WHERE assigned_collector_id = $1 AND (cardinality($2::text[]) = 0 OR status = ANY($2))
		ORDER BY assigned_at NULLS LAST, created_at`
	return r.list(ctx, query, collectorID, productStatusStrings(statuses))
}

func (r *productRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.conn(ctx).QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&n)
	return n, err
}

func (r *productRepository) CountDeliveredSince(ctx context.Context, collectorID uuid.UUID, since time.Time) (int, error) {
	var n int
	err := r.db.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM products WHERE assigned_collector_id = $1 AND delivered_at >= $2`,
		collectorID, since,
	).Scan(&n)
	return n, err
}

func productStatusStrings(statuses []domain.ProductStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
