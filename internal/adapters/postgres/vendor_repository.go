package postgres

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type vendorRepository struct {
	db     *DB
	secSvc ports.SecurityPort // GST numbers are stored encrypted
	log    zerolog.Logger
}

var _ ports.VendorRepository = (*vendorRepository)(nil)

// NewVendorRepository creates a repository for vendor profiles.
func NewVendorRepository(db *DB, secSvc ports.SecurityPort, baseLogger *zerolog.Logger) ports.VendorRepository {
	return &vendorRepository{
		db:     db,
		secSvc: secSvc,
		log:    baseLogger.With().Str("component", "vendor_repo").Logger(),
	}
}

const vendorQueryCols = `
	id, user_id, company_name, license_number, license_document, license_verified,
	verification_status, trust_score, forensics_score, gst_number, specializations,
	processing_capacity, current_workload, rating, total_recycled,
	successful_evaluations, disputed_evaluations, is_active, suspension_count,
	last_suspension_date, created_at, updated_at
`

// Only approved, active vendors under 90 percent load can take work.
const vendorAcceptsWork = `
	verification_status = 'approved' AND is_active
	AND current_workload * 100 < processing_capacity * 90
`

func (r *vendorRepository) sealGST(v *domain.Vendor) (*string, error) {
	if v.GSTNumber == nil {
		return nil, nil
	}
	enc, err := sealString(r.secSvc, *v.GSTNumber)
	if err != nil {
		r.log.Error().Err(err).Str("vendor_id", v.ID.String()).Msg("Failed to encrypt GST number")
		return nil, err
	}
	return &enc, nil
}

func (r *vendorRepository) Create(ctx context.Context, v *domain.Vendor) error {
	encGST, err := r.sealGST(v)
	if err != nil {
		return err
	}
	if v.Specializations == nil {
		v.Specializations = []string{}
	}

	query := `
		INSERT INTO vendor_profiles (
			id, user_id, company_name, license_number, license_document, license_verified,
			verification_status, trust_score, forensics_score, gst_number, specializations,
			processing_capacity, current_workload, rating, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`
	err = r.db.conn(ctx).QueryRow(ctx, query,
		v.ID,
		v.UserID,
		v.CompanyName,
		v.LicenseNumber,
		v.LicenseDocument,
		v.LicenseVerified,
		v.VerificationStatus,
		v.TrustScore,
		v.ForensicsScore,
		encGST,
		v.Specializations,
		v.ProcessingCapacity,
		v.CurrentWorkload,
		v.Rating,
		v.IsActive,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("license", v.LicenseNumber).Msg("Failed to insert vendor profile")
		return mapErr(err, "create vendor")
	}
	return nil
}

func (r *vendorRepository) scanVendor(row pgx.Row) (*domain.Vendor, error) {
	var v domain.Vendor
	var encGST *string

	err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.CompanyName,
		&v.LicenseNumber,
		&v.LicenseDocument,
		&v.LicenseVerified,
		&v.VerificationStatus,
		&v.TrustScore,
		&v.ForensicsScore,
		&encGST,
		&v.Specializations,
		&v.ProcessingCapacity,
		&v.CurrentWorkload,
		&v.Rating,
		&v.TotalRecycled,
		&v.SuccessfulEvaluations,
		&v.DisputedEvaluations,
		&v.IsActive,
		&v.SuspensionCount,
		&v.LastSuspensionDate,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.log.Error().Err(err).Msg("Failed to scan vendor row")
		}
		return nil, mapErr(err, "vendor")
	}

	if encGST != nil {
		gst, err := openString(r.secSvc, *encGST)
		if err != nil {
			r.log.Error().Err(err).Str("vendor_id", v.ID.String()).Msg("Failed to open GST number")
			return nil, err
		}
		v.GSTNumber = &gst
	}
	return &v, nil
}

func (r *vendorRepository) scanVendors(rows pgx.Rows) ([]*domain.Vendor, error) {
	defer rows.Close()
	var out []*domain.Vendor
	for rows.Next() {
		v, err := r.scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *vendorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	query := `SELECT ` + vendorQueryCols + ` FROM vendor_profiles WHERE id = $1`
	return r.scanVendor(r.db.conn(ctx).QueryRow(ctx, query, id))
}

func (r *vendorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Vendor, error) {
	query := `SELECT ` + vendorQueryCols + ` FROM vendor_profiles WHERE user_id = $1`
	return r.scanVendor(r.db.conn(ctx).QueryRow(ctx, query, userID))
}

// GetForUpdate must run inside WithinTx for the lock to outlive the statement.
func (r *vendorRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Vendor, error) {
	query := `SELECT ` + vendorQueryCols + ` FROM vendor_profiles WHERE id = $1 FOR UPDATE`
	return r.scanVendor(r.db.conn(ctx).QueryRow(ctx, query, id))
}

// Update never touches current_workload; that column moves only through
// ReserveWorkload and ReleaseWorkload.
func (r *vendorRepository) Update(ctx context.Context, v *domain.Vendor) error {
	encGST, err := r.sealGST(v)
	if err != nil {
		return err
	}
	if v.Specializations == nil {
		v.Specializations = []string{}
	}

	query := `
		UPDATE vendor_profiles SET
			company_name = $2, license_number = $3, license_document = $4,
			license_verified = $5, verification_status = $6, trust_score = $7,
			forensics_score = $8, gst_number = $9, specializations = $10,
			processing_capacity = $11, rating = $12, total_recycled = $13,
			successful_evaluations = $14, disputed_evaluations = $15, is_active = $16,
			suspension_count = $17, last_suspension_date = $18, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.conn(ctx).QueryRow(ctx, query,
		v.ID,
		v.CompanyName,
		v.LicenseNumber,
		v.LicenseDocument,
		v.LicenseVerified,
		v.VerificationStatus,
		v.TrustScore,
		v.ForensicsScore,
		encGST,
		v.Specializations,
		v.ProcessingCapacity,
		v.Rating,
		v.TotalRecycled,
		v.SuccessfulEvaluations,
		v.DisputedEvaluations,
		v.IsActive,
		v.SuspensionCount,
		v.LastSuspensionDate,
	).Scan(&v.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("vendor_id", v.ID.String()).Msg("Failed to update vendor")
		return mapErr(err, "update vendor")
	}
	return nil
}

func (r *vendorRepository) ListByStatus(ctx context.Context, statuses ...domain.VerificationStatus) ([]*domain.Vendor, error) {
	query := `SELECT ` + vendorQueryCols + `
		FROM vendor_profiles WHERE verification_status = ANY($1) ORDER BY created_at`
	rows, err := r.db.conn(ctx).Query(ctx, query, statusStrings(statuses))
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to list vendors by status")
		return nil, err
	}
	return r.scanVendors(rows)
}

func (r *vendorRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.conn(ctx).Query(ctx, `SELECT id FROM vendor_profiles ORDER BY created_at`)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to list vendor ids")
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}

// ListEligible orders by trust score so the best candidates come first.
func (r *vendorRepository) ListEligible(ctx context.Context) ([]*domain.Vendor, error) {
	query := `SELECT ` + vendorQueryCols + ` FROM vendor_profiles WHERE ` + vendorAcceptsWork + `
		ORDER BY trust_score DESC, current_workload`
	rows, err := r.db.conn(ctx).Query(ctx, query)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to list eligible vendors")
		return nil, err
	}
	return r.scanVendors(rows)
}

func (r *vendorRepository) CountByStatus(ctx context.Context, status domain.VerificationStatus) (int, error) {
	var n int
	err := r.db.conn(ctx).QueryRow(ctx,
		`SELECT count(*) FROM vendor_profiles WHERE verification_status = $1`, status,
	).Scan(&n)
	return n, err
}

func (r *vendorRepository) ReserveWorkload(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE vendor_profiles SET current_workload = current_workload + 1, updated_at = now()
		WHERE id = $1 AND ` + vendorAcceptsWork
	tag, err := r.db.conn(ctx).Exec(ctx, query, id)
	if err != nil {
		r.log.Error().Err(err).Str("vendor_id", id.String()).Msg("Failed to reserve workload")
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vendor %s cannot accept more work: %w", id, domain.ErrConflict)
	}
	return nil
}

func (r *vendorRepository) ReleaseWorkload(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.conn(ctx).Exec(ctx,
		`UPDATE vendor_profiles SET current_workload = GREATEST(current_workload - 1, 0), updated_at = now()
		WHERE id = $1`, id)
	if err != nil {
		r.log.Error().Err(err).Str("vendor_id", id.String()).Msg("Failed to release workload")
	}
	return err
}

func statusStrings(statuses []domain.VerificationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
