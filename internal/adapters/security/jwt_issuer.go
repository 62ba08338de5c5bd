package security

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// accessClaims is the JWT body of an access token.
type accessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type jwtIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	nowFn  func() time.Time
}

var _ ports.TokenIssuer = (*jwtIssuer)(nil)

// NewJWTIssuer signs HS256 access tokens with the given secret and lifetime.
func NewJWTIssuer(secret, issuer string, ttl time.Duration) ports.TokenIssuer {
	return &jwtIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		nowFn:  time.Now,
	}
}

func (j *jwtIssuer) Issue(user *domain.User) (string, time.Time, error) {
	now := j.nowFn()
	expiresAt := now.Add(j.ttl)
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: string(user.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (j *jwtIssuer) Parse(raw string) (*ports.TokenClaims, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.nowFn),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", domain.ErrUnauthorized)
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid role", domain.ErrUnauthorized)
	}

	return &ports.TokenClaims{
		UserID:    userID,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
