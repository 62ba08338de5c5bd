package postgres

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type pickupRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.PickupRepository = (*pickupRepository)(nil)

// NewPickupRepository creates a repository for pickup requests.
func NewPickupRepository(db *DB, baseLogger *zerolog.Logger) ports.PickupRepository {
	return &pickupRepository{
		db:  db,
		log: baseLogger.With().Str("component", "pickup_repo").Logger(),
	}
}

const pickupQueryCols = `
	id, product_id, seller_id, collector_id, pickup_location_text, latitude,
	longitude, status, seller_notes, collector_notes, assigned_at, completed_at,
	created_at, updated_at
`

func (r *pickupRepository) Create(ctx context.Context, req *domain.PickupRequest) error {
	query := `
		INSERT INTO pickup_requests (
			product_id, seller_id, pickup_location_text, latitude, longitude,
			status, seller_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.conn(ctx).QueryRow(ctx, query,
		req.ProductID,
		req.SellerID,
		req.PickupLocationText,
		req.Latitude,
		req.Longitude,
		req.Status,
		req.SellerNotes,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("product_id", req.ProductID.String()).Msg("Failed to insert pickup request")
		return mapErr(err, "create pickup request")
	}
	return nil
}

func (r *pickupRepository) GetByProductID(ctx context.Context, productID uuid.UUID) (*domain.PickupRequest, error) {
	query := `SELECT ` + pickupQueryCols + ` FROM pickup_requests WHERE product_id = $1`

	var req domain.PickupRequest
	err := r.db.conn(ctx).QueryRow(ctx, query, productID).Scan(
		&req.ID,
		&req.ProductID,
		&req.SellerID,
		&req.CollectorID,
		&req.PickupLocationText,
		&req.Latitude,
		&req.Longitude,
		&req.Status,
		&req.SellerNotes,
		&req.CollectorNotes,
		&req.AssignedAt,
		&req.CompletedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.log.Error().Err(err).Msg("Failed to scan pickup request row")
		}
		return nil, mapErr(err, "pickup request")
	}
	return &req, nil
}

func (r *pickupRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID, statuses ...domain.PickupStatus) (int, error) {
	wanted := make([]string, len(statuses))
	for i, s := range statuses {
		wanted[i] = string(s)
	}
	var n int
	err := r.db.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM pickup_requests WHERE seller_id = $1 AND status = ANY($2)`,
		sellerID, wanted,
	).Scan(&n)
	return n, err
}

func (r *pickupRepository) Update(ctx context.Context, req *domain.PickupRequest) error {
	query := `
		UPDATE pickup_requests SET
			collector_id = $2, pickup_location_text = $3, latitude = $4, longitude = $5,
			status = $6, seller_notes = $7, collector_notes = $8, assigned_at = $9,
			completed_at = $10, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.conn(ctx).QueryRow(ctx, query,
		req.ID,
		req.CollectorID,
		req.PickupLocationText,
		req.Latitude,
		req.Longitude,
		req.Status,
		req.SellerNotes,
		req.CollectorNotes,
		req.AssignedAt,
		req.CompletedAt,
	).Scan(&req.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Int64("pickup_id", req.ID).Msg("Failed to update pickup request")
		return mapErr(err, "update pickup request")
	}
	return nil
}
