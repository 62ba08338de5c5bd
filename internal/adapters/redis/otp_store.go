package redis

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const otpKeyPrefix = "erecyclo:otp:"

type otpStore struct {
	client goredis.Cmdable
	log    zerolog.Logger
}

var _ ports.OTPStore = (*otpStore)(nil)

// NewOTPStore keeps one code per user; saving again replaces the previous one.
func NewOTPStore(client goredis.Cmdable, baseLogger *zerolog.Logger) ports.OTPStore {
	return &otpStore{
		client: client,
		log:    baseLogger.With().Str("component", "otp_store").Logger(),
	}
}

func otpKey(userID uuid.UUID) string {
	return otpKeyPrefix + userID.String()
}

func (s *otpStore) Save(ctx context.Context, userID uuid.UUID, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, otpKey(userID), code, ttl).Err(); err != nil {
		s.log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to store OTP")
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

func (s *otpStore) Get(ctx context.Context, userID uuid.UUID) (string, error) {
	code, err := s.client.Get(ctx, otpKey(userID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", fmt.Errorf("otp for %s: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to read OTP")
		return "", fmt.Errorf("read otp: %w", err)
	}
	return code, nil
}

func (s *otpStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, otpKey(userID)).Err(); err != nil {
		s.log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to delete OTP")
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}
