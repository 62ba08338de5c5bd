package services

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"ERecyclo/internal/shared/config"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// FraudService raises flags on suspicious evaluations and applies admin
// verdicts to the flagged vendor.
type FraudService struct {
	tx      ports.Transactor
	flags   ports.FraudFlagRepository
	vendors ports.VendorRepository
	bus     ports.EventBus
	rules   config.BusinessConfig
	log     zerolog.Logger
	nowFn   func() time.Time
}

var _ ports.FraudService = (*FraudService)(nil)

func NewFraudService(
	tx ports.Transactor,
	flags ports.FraudFlagRepository,
	vendors ports.VendorRepository,
	bus ports.EventBus,
	rules config.BusinessConfig,
	baseLogger *zerolog.Logger,
) *FraudService {
	return &FraudService{
		tx:      tx,
		flags:   flags,
		vendors: vendors,
		bus:     bus,
		rules:   rules,
		log:     baseLogger.With().Str("component", "fraud_service").Logger(),
		nowFn:   time.Now,
	}
}

// RaiseFlag records a flag for the product's vendor. It must run inside the
// caller's transaction. When the vendor reaches the configured number of
// flags within the window, an approved vendor is suspended.
func (s *FraudService) RaiseFlag(ctx context.Context, product *domain.Product, risk decimal.Decimal, details domain.VarianceDetails) (*domain.FraudFlag, error) {
	if product.AssignedVendorID == nil {
		return nil, fmt.Errorf("%w: product %s has no vendor", domain.ErrInvalidInput, product.ID)
	}
	vendorID := *product.AssignedVendorID
	now := s.nowFn()

	flag := domain.NewFraudFlag(product.ID, vendorID, risk, details)
	flag.CreatedAt = now
	if err := s.flags.Create(ctx, flag); err != nil {
		return nil, fmt.Errorf("create flag for product %s: %w", product.ID, err)
	}

	count, err := s.flags.CountByVendorSince(ctx, vendorID, now.Add(-s.rules.AutoSuspendWindow))
	if err != nil {
		return nil, fmt.Errorf("count flags for vendor %s: %w", vendorID, err)
	}

	vendor, err := s.vendors.GetForUpdate(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("vendor %s: %w", vendorID, err)
	}

	suspended := false
	if count >= s.rules.AutoSuspendFlags && vendor.VerificationStatus == domain.StatusApproved {
		if err := vendor.Apply(domain.ActionSuspend, now); err != nil {
			return nil, err
		}
		if err := s.vendors.Update(ctx, vendor); err != nil {
			return nil, fmt.Errorf("suspend vendor %s: %w", vendorID, err)
		}
		suspended = true
		s.log.Warn().
			Str("vendor_id", vendorID.String()).
			Int("flags", count).
			Msg("Vendor auto-suspended after repeated fraud flags")
	}

	s.log.Info().
		Str("flag_id", flag.ID.String()).
		Str("product_id", product.ID.String()).
		Str("risk", risk.String()).
		Msg("Fraud flag raised")

	publish(ctx, s.bus, &s.log, ports.TopicFraudFlagged, ports.FlaggedEvent{
		Flag:          flag,
		ProductName:   product.Name,
		VendorName:    vendor.CompanyName,
		AutoSuspended: suspended,
	})
	return flag, nil
}

// ResolveFlag records the admin verdict exactly once and applies its effect
// on the vendor in the same transaction.
func (s *FraudService) ResolveFlag(ctx context.Context, adminID, flagID uuid.UUID, decision domain.FraudDecision, notes string) (*domain.FraudFlag, error) {
	decision, err := domain.ParseFraudDecision(string(decision))
	if err != nil {
		return nil, err
	}
	log := s.log.With().
		Str("admin_id", adminID.String()).
		Str("flag_id", flagID.String()).
		Str("decision", string(decision)).
		Logger()

	var resolved *domain.FraudFlag
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		flag, err := s.flags.GetByID(ctx, flagID)
		if err != nil {
			return err
		}
		if err := flag.Resolve(adminID, decision, notes, s.nowFn()); err != nil {
			return err
		}
		// Guarded on admin_reviewed = false, so a concurrent resolve loses here.
		if err := s.flags.MarkReviewed(ctx, flag); err != nil {
			return err
		}

		vendor, err := s.vendors.GetForUpdate(ctx, flag.VendorID)
		if err != nil {
			return err
		}
		switch decision {
		case domain.DecisionVendorFraud:
			vendor.ApplyFraudPenalty()
		case domain.DecisionVendorCorrect:
			vendor.SuccessfulEvaluations++
		}
		if err := s.vendors.Update(ctx, vendor); err != nil {
			return err
		}
		resolved = flag
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyReviewed) {
			log.Warn().Msg("Flag already reviewed")
		} else {
			log.Error().Err(err).Msg("Failed to resolve flag")
		}
		return nil, fmt.Errorf("resolve flag %s: %w", flagID, err)
	}

	log.Info().Msg("Fraud flag resolved")
	return resolved, nil
}

// OpenFlags lists unreviewed flags, highest risk first.
func (s *FraudService) OpenFlags(ctx context.Context) ([]*domain.FraudFlag, error) {
	return s.flags.ListOpen(ctx)
}
