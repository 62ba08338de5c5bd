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

type userRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.UserRepository = (*userRepository)(nil)

// NewUserRepository creates a new repository for user operations.
func NewUserRepository(db *DB, baseLogger *zerolog.Logger) ports.UserRepository {
	return &userRepository{
		db:  db,
		log: baseLogger.With().Str("component", "user_repo").Logger(),
	}
}

const userQueryCols = `
	id, email, phone, password_hash, role, first_name, last_name,
	address, city, state, pincode, wallet_balance, loyalty_points,
	is_active, is_email_verified, telegram_id, created_at, updated_at
`

// Create saves a new user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, email, phone, password_hash, role, first_name, last_name,
			address, city, state, pincode, wallet_balance, loyalty_points,
			is_active, is_email_verified, telegram_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`
	err := r.db.conn(ctx).QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.FirstName,
		user.LastName,
		user.Address,
		user.City,
		user.State,
		user.Pincode,
		user.WalletBalance,
		user.LoyaltyPoints,
		user.IsActive,
		user.IsEmailVerified,
		user.TelegramID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("email", user.Email).Msg("Failed to insert new user")
		return mapErr(err, "create user")
	}
	return nil
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.FirstName,
		&user.LastName,
		&user.Address,
		&user.City,
		&user.State,
		&user.Pincode,
		&user.WalletBalance,
		&user.LoyaltyPoints,
		&user.IsActive,
		&user.IsEmailVerified,
		&user.TelegramID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.log.Error().Err(err).Msg("Failed to scan user row")
		}
		return nil, mapErr(err, "user")
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userQueryCols + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.conn(ctx).QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userQueryCols + ` FROM users WHERE lower(email) = lower($1)`
	return r.scanUser(r.db.conn(ctx).QueryRow(ctx, query, email))
}

// GetByTelegramID finds the account linked to a Telegram user.
func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	query := `SELECT ` + userQueryCols + ` FROM users WHERE telegram_id = $1`
	user, err := r.scanUser(r.db.conn(ctx).QueryRow(ctx, query, telegramID))
	if errors.Is(err, domain.ErrNotFound) {
		r.log.Info().Int64("telegram_id", telegramID).Msg("User not found")
	}
	return user, err
}

// Update rewrites the mutable profile columns.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users SET
			email = $2, phone = $3, password_hash = $4, first_name = $5, last_name = $6,
			address = $7, city = $8, state = $9, pincode = $10, wallet_balance = $11,
			loyalty_points = $12, is_active = $13, is_email_verified = $14, telegram_id = $15,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.conn(ctx).QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Address,
		user.City,
		user.State,
		user.Pincode,
		user.WalletBalance,
		user.LoyaltyPoints,
		user.IsActive,
		user.IsEmailVerified,
		user.TelegramID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to update user")
		return mapErr(err, "update user")
	}
	return nil
}
