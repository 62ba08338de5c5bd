package services

import (
	"ERecyclo/internal/core/ports"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ScoringService recomputes stored trust scores. Scores are never refreshed
// implicitly; an admin triggers this explicitly.
type ScoringService struct {
	tx      ports.Transactor
	vendors ports.VendorRepository
	log     zerolog.Logger
}

var _ ports.ScoringService = (*ScoringService)(nil)

func NewScoringService(tx ports.Transactor, vendors ports.VendorRepository, baseLogger *zerolog.Logger) *ScoringService {
	return &ScoringService{
		tx:      tx,
		vendors: vendors,
		log:     baseLogger.With().Str("component", "scoring_service").Logger(),
	}
}

// RecalculateTrustScores updates every listed vendor in one transaction.
// An empty list means all vendors.
func (s *ScoringService) RecalculateTrustScores(ctx context.Context, vendorIDs []uuid.UUID) (int, error) {
	ids := vendorIDs
	if len(ids) == 0 {
		all, err := s.vendors.ListIDs(ctx)
		if err != nil {
			return 0, fmt.Errorf("list vendors: %w", err)
		}
		ids = all
	}

	updated := 0
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			vendor, err := s.vendors.GetForUpdate(ctx, id)
			if err != nil {
				return fmt.Errorf("vendor %s: %w", id, err)
			}
			vendor.RecalculateTrustScore()
			if err := s.vendors.Update(ctx, vendor); err != nil {
				return fmt.Errorf("vendor %s: %w", id, err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Msg("Trust score recalculation failed")
		return 0, err
	}

	s.log.Info().Int("updated", updated).Msg("Recalculated trust scores")
	return updated, nil
}
