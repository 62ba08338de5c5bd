package ports

import (
	"ERecyclo/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the persistence operations for Users.
type UserRepository interface {
	// Create saves a new user. A duplicate email or phone returns domain.ErrAlreadyExists.
	Create(ctx context.Context, user *domain.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByTelegramID finds the moderator linked to a Telegram account.
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)

	Update(ctx context.Context, user *domain.User) error
}
