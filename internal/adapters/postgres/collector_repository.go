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

type collectorRepository struct {
	db     *DB
	secSvc ports.SecurityPort // Licence numbers are stored encrypted
	log    zerolog.Logger
}

var _ ports.CollectorRepository = (*collectorRepository)(nil)

// NewCollectorRepository creates a repository for collector profiles.
func NewCollectorRepository(db *DB, secSvc ports.SecurityPort, baseLogger *zerolog.Logger) ports.CollectorRepository {
	return &collectorRepository{
		db:     db,
		secSvc: secSvc,
		log:    baseLogger.With().Str("component", "collector_repo").Logger(),
	}
}

const collectorQueryCols = `
	id, user_id, verification_status, is_verified, verified_by, verified_at,
	profile_photo, driving_license_front, driving_license_back, vehicle_registration,
	police_verification_doc, vehicle_type, vehicle_number, driving_license_number,
	is_available, current_pickups, total_deliveries, rating, is_blacklisted,
	blacklist_reason, service_area, created_at, updated_at
`

// collectorEligible is the assignment gate with the pickup limit bound to
// the given placeholder.
func collectorEligible(limitParam int) string {
	return fmt.Sprintf("is_verified AND is_available AND NOT is_blacklisted AND current_pickups < $%d", limitParam)
}

func (r *collectorRepository) sealLicense(c *domain.Collector) (string, error) {
	if c.DrivingLicenseNumber == "" {
		return "", nil
	}
	enc, err := sealString(r.secSvc, c.DrivingLicenseNumber)
	if err != nil {
		r.log.Error().Err(err).Str("collector_id", c.ID.String()).Msg("Failed to encrypt licence number")
		return "", err
	}
	return enc, nil
}

func (r *collectorRepository) Create(ctx context.Context, c *domain.Collector) error {
	encDL, err := r.sealLicense(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO collector_profiles (
			id, user_id, verification_status, is_verified, profile_photo,
			driving_license_front, driving_license_back, vehicle_registration,
			police_verification_doc, vehicle_type, vehicle_number,
			driving_license_number, is_available, rating, service_area
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`
	err = r.db.conn(ctx).QueryRow(ctx, query,
		c.ID,
		c.UserID,
		c.VerificationStatus,
		c.IsVerified,
		c.ProfilePhoto,
		c.DrivingLicenseFront,
		c.DrivingLicenseBack,
		c.VehicleRegistration,
		c.PoliceVerificationDoc,
		c.VehicleType,
		c.VehicleNumber,
		encDL,
		c.IsAvailable,
		c.Rating,
		c.ServiceArea,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", c.UserID.String()).Msg("Failed to insert collector profile")
		return mapErr(err, "create collector")
	}
	return nil
}

func (r *collectorRepository) scanCollector(row pgx.Row) (*domain.Collector, error) {
	var c domain.Collector
	var encDL string

	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.VerificationStatus,
		&c.IsVerified,
		&c.VerifiedBy,
		&c.VerifiedAt,
		&c.ProfilePhoto,
		&c.DrivingLicenseFront,
		&c.DrivingLicenseBack,
		&c.VehicleRegistration,
		&c.PoliceVerificationDoc,
		&c.VehicleType,
		&c.VehicleNumber,
		&encDL,
		&c.IsAvailable,
		&c.CurrentPickups,
		&c.TotalDeliveries,
		&c.Rating,
		&c.IsBlacklisted,
		&c.BlacklistReason,
		&c.ServiceArea,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.log.Error().Err(err).Msg("Failed to scan collector row")
		}
		return nil, mapErr(err, "collector")
	}

	if encDL != "" {
		dl, err := openString(r.secSvc, encDL)
		if err != nil {
			r.log.Error().Err(err).Str("collector_id", c.ID.String()).Msg("Failed to open licence number")
			return nil, err
		}
		c.DrivingLicenseNumber = dl
	}
	return &c, nil
}

func (r *collectorRepository) scanCollectors(rows pgx.Rows) ([]*domain.Collector, error) {
	defer rows.Close()
	var out []*domain.Collector
	for rows.Next() {
		c, err := r.scanCollector(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *collectorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Collector, error) {
	query := `SELECT ` + collectorQueryCols + ` FROM collector_profiles WHERE id = $1`
	return r.scanCollector(r.db.conn(ctx).QueryRow(ctx, query, id))
}

func (r *collectorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Collector, error) {
	query := `SELECT ` + collectorQueryCols + ` FROM collector_profiles WHERE user_id = $1`
	return r.scanCollector(r.db.conn(ctx).QueryRow(ctx, query, userID))
}

func (r *collectorRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Collector, error) {
	query := `SELECT ` + collectorQueryCols + ` FROM collector_profiles WHERE id = $1 FOR UPDATE`
	return r.scanCollector(r.db.conn(ctx).QueryRow(ctx, query, id))
}

// Update leaves current_pickups alone; only ReserveSlot and ReleaseSlot move it.
func (r *collectorRepository) Update(ctx context.Context, c *domain.Collector) error {
	encDL, err := r.sealLicense(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE collector_profiles SET
			verification_status = $2, is_verified = $3, verified_by = $4, verified_at = $5,
			profile_photo = $6, driving_license_front = $7, driving_license_back = $8,
			vehicle_registration = $9, police_verification_doc = $10, vehicle_type = $11,
			vehicle_number = $12, driving_license_number = $13, is_available = $14,
			total_deliveries = $15, rating = $16, is_blacklisted = $17,
			blacklist_reason = $18, service_area = $19, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err = r.db.conn(ctx).QueryRow(ctx, query,
		c.ID,
		c.VerificationStatus,
		c.IsVerified,
		c.VerifiedBy,
		c.VerifiedAt,
		c.ProfilePhoto,
		c.DrivingLicenseFront,
		c.DrivingLicenseBack,
		c.VehicleRegistration,
		c.PoliceVerificationDoc,
		c.VehicleType,
		c.VehicleNumber,
		encDL,
		c.IsAvailable,
		c.TotalDeliveries,
		c.Rating,
		c.IsBlacklisted,
		c.BlacklistReason,
		c.ServiceArea,
	).Scan(&c.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("collector_id", c.ID.String()).Msg("Failed to update collector")
		return mapErr(err, "update collector")
	}
	return nil
}

func (r *collectorRepository) ListByStatus(ctx context.Context, statuses ...domain.VerificationStatus) ([]*domain.Collector, error) {
	query := `SELECT ` + collectorQueryCols + `
		FROM collector_profiles WHERE verification_status = ANY($1) ORDER BY created_at`
	rows, err := r.db.conn(ctx).Query(ctx, query, statusStrings(statuses))
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to list collectors by status")
		return nil, err
	}
	return r.scanCollectors(rows)
}

// ListEligible puts the least loaded collectors first.
func (r *collectorRepository) ListEligible(ctx context.Context, maxPickups int) ([]*domain.Collector, error) {
	query := `SELECT ` + collectorQueryCols + ` FROM collector_profiles
		WHERE ` + collectorEligible(1) + `
		ORDER BY current_pickups, rating DESC`
	rows, err := r.db.conn(ctx).Query(ctx, query, maxPickups)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to list eligible collectors")
		return nil, err
	}
	return r.scanCollectors(rows)
}

func (r *collectorRepository) ReserveSlot(ctx context.Context, id uuid.UUID, maxPickups int) error {
	query := `UPDATE collector_profiles SET current_pickups = current_pickups + 1, updated_at = now()
		WHERE id = $1 AND ` + collectorEligible(2)
	tag, err := r.db.conn(ctx).Exec(ctx, query, id, maxPickups)
	if err != nil {
		r.log.Error().Err(err).Str("collector_id", id.String()).Msg("Failed to reserve pickup slot")
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("collector %s has no free pickup slot: %w", id, domain.ErrConflict)
	}
	return nil
}

func (r *collectorRepository) ReleaseSlot(ctx context.Context, id uuid.UUID, delivered bool) error {
	query := `UPDATE collector_profiles SET
			current_pickups = GREATEST(current_pickups - 1, 0),
			total_deliveries = total_deliveries + CASE WHEN $2::boolean THEN 1 ELSE 0 END,
			updated_at = now()
		WHERE id = $1`
	_, err := r.db.conn(ctx).Exec(ctx, query, id, delivered)
	if err != nil {
		r.log.Error().Err(err).Str("collector_id", id.String()).Msg("Failed to release pickup slot")
	}
	return err
}
