package postgres

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type fraudFlagRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.FraudFlagRepository = (*fraudFlagRepository)(nil)

// NewFraudFlagRepository creates a repository for fraud flags.
func NewFraudFlagRepository(db *DB, baseLogger *zerolog.Logger) ports.FraudFlagRepository {
	return &fraudFlagRepository{
		db:  db,
		log: baseLogger.With().Str("component", "fraud_flag_repo").Logger(),
	}
}

const fraudFlagQueryCols = `
	id, product_id, vendor_id, risk_score, variance_details, admin_reviewed,
	admin_decision, admin_notes, reviewed_by, created_at, reviewed_at
`

// Create stores variance_details as jsonb.
func (r *fraudFlagRepository) Create(ctx context.Context, f *domain.FraudFlag) error {
	query := `
		INSERT INTO fraud_flags (id, product_id, vendor_id, risk_score, variance_details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.conn(ctx).QueryRow(ctx, query,
		f.ID,
		f.ProductID,
		f.VendorID,
		f.RiskScore,
		f.VarianceDetails,
	).Scan(&f.CreatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("product_id", f.ProductID.String()).Msg("Failed to insert fraud flag")
		return mapErr(err, "create fraud flag")
	}
	return nil
}

func (r *fraudFlagRepository) scanFlag(row pgx.Row) (*domain.FraudFlag, error) {
	var f domain.FraudFlag
	err := row.Scan(
		&f.ID,
		&f.ProductID,
		&f.VendorID,
		&f.RiskScore,
		&f.VarianceDetails,
		&f.AdminReviewed,
		&f.AdminDecision,
		&f.AdminNotes,
		&f.ReviewedBy,
		&f.CreatedAt,
		&f.ReviewedAt,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.log.Error().Err(err).Msg("Failed to scan fraud flag row")
		}
		return nil, mapErr(err, "fraud flag")
	}
	return &f, nil
}

func (r *fraudFlagRepository) list(ctx context.Context, query string, args ...any) ([]*domain.FraudFlag, error) {
	rows, err := r.db.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query fraud flags")
		return nil, err
	}
	defer rows.Close()

	var out []*domain.FraudFlag
	for rows.Next() {
		f, err := r.scanFlag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *fraudFlagRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FraudFlag, error) {
	query := `SELECT ` + fraudFlagQueryCols + ` FROM fraud_flags WHERE id = $1`
	return r.scanFlag(r.db.conn(ctx).QueryRow(ctx, query, id))
}

// MarkReviewed only wins against an unreviewed row, so two admins resolving
// the same flag cannot both apply a penalty.
func (r *fraudFlagRepository) MarkReviewed(ctx context.Context, f *domain.FraudFlag) error {
	query := `
		UPDATE fraud_flags SET
			admin_reviewed = TRUE, admin_decision = $2, admin_notes = $3,
			reviewed_by = $4, reviewed_at = $5
		WHERE id = $1 AND NOT admin_reviewed
	`
	tag, err := r.db.conn(ctx).Exec(ctx, query,
		f.ID,
		f.AdminDecision,
		f.AdminNotes,
		f.ReviewedBy,
		f.ReviewedAt,
	)
	if err != nil {
		r.log.Error().Err(err).Str("flag_id", f.ID.String()).Msg("Failed to mark fraud flag reviewed")
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fraud flag %s: %w", f.ID, domain.ErrAlreadyReviewed)
	}
	return nil
}

func (r *fraudFlagRepository) ListOpen(ctx context.Context) ([]*domain.FraudFlag, error) {
	query := `SELECT ` + fraudFlagQueryCols + ` FROM fraud_flags
		WHERE NOT admin_reviewed ORDER BY risk_score DESC, created_at`
	return r.list(ctx, query)
}

func (r *fraudFlagRepository) ListRecentOpen(ctx context.Context, limit int) ([]*domain.FraudFlag, error) {
	query := `SELECT ` + fraudFlagQueryCols + ` FROM fraud_flags
		WHERE NOT admin_reviewed ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *fraudFlagRepository) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.db.conn(ctx).QueryRow(ctx, `SELECT count(*) FROM fraud_flags WHERE NOT admin_reviewed`).Scan(&n)
	return n, err
}

func (r *fraudFlagRepository) CountByVendorSince(ctx context.Context, vendorID uuid.UUID, since time.Time) (int, error) {
	var n int
	err := r.db.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM fraud_flags WHERE vendor_id = $1 AND created_at >= $2`,
		vendorID, since,
	).Scan(&n)
	return n, err
}
