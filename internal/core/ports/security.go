package ports

import (
	"ERecyclo/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// SecurityPort defines the interface for encrypting and decrypting sensitive data.
// This allows us to swap the implementation (e.g., from AES to something else)
// without changing any business logic that uses it.
type SecurityPort interface {
	// Encrypt takes a plaintext and returns a secure, encrypted ciphertext.
	Encrypt(plaintext []byte) (ciphertext []byte, err error)

	// Decrypt takes a ciphertext and returns the original plaintext.
	Decrypt(ciphertext []byte) (plaintext []byte, err error)
}

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns domain.ErrUnauthorized on mismatch.
	Compare(hash, password string) error
}

// TokenClaims is what an access token carries.
type TokenClaims struct {
	UserID    uuid.UUID
	Role      domain.Role
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (token string, expiresAt time.Time, err error)
	Parse(token string) (*TokenClaims, error)
}

// OTPStore keeps one-time codes with an expiry.
type OTPStore interface {
	Save(ctx context.Context, userID uuid.UUID, code string, ttl time.Duration) error
	// Get returns domain.ErrNotFound when the code is missing or expired.
	Get(ctx context.Context, userID uuid.UUID) (string, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// Notifier delivers account notices (OTP codes, status changes) to users.
type Notifier interface {
	Notify(ctx context.Context, user *domain.User, subject, body string) error
}
