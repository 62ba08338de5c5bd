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
)

// AssignmentService lets an admin dispatch a product to a vendor and then
// to a collector. Capacity counters only move through conditional updates.
type AssignmentService struct {
	tx         ports.Transactor
	products   ports.ProductRepository
	pickups    ports.PickupRepository
	vendors    ports.VendorRepository
	collectors ports.CollectorRepository
	rules      config.BusinessConfig
	log        zerolog.Logger
	nowFn      func() time.Time
}

var _ ports.AssignmentService = (*AssignmentService)(nil)

func NewAssignmentService(
	tx ports.Transactor,
	products ports.ProductRepository,
	pickups ports.PickupRepository,
	vendors ports.VendorRepository,
	collectors ports.CollectorRepository,
	rules config.BusinessConfig,
	baseLogger *zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		tx:         tx,
		products:   products,
		pickups:    pickups,
		vendors:    vendors,
		collectors: collectors,
		rules:      rules,
		log:        baseLogger.With().Str("component", "assignment_service").Logger(),
		nowFn:      time.Now,
	}
}

// EligibleCollectors lists collectors that pass the assignment gate.
func (s *AssignmentService) EligibleCollectors(ctx context.Context) ([]*domain.Collector, error) {
	return s.collectors.ListEligible(ctx, s.rules.MaxConcurrentPickups)
}

// EligibleVendors lists approved, active vendors under 90% workload.
func (s *AssignmentService) EligibleVendors(ctx context.Context) ([]*domain.Vendor, error) {
	return s.vendors.ListEligible(ctx)
}

// AssignVendor reserves one unit of vendor workload for the product.
func (s *AssignmentService) AssignVendor(ctx context.Context, productID, vendorID uuid.UUID) (*domain.Product, error) {
	log := s.log.With().
		Str("product_id", productID.String()).
		Str("vendor_id", vendorID.String()).
		Logger()

	var product *domain.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		vendor, err := s.vendors.GetByID(ctx, vendorID)
		if err != nil {
			return err
		}
		if vendor.VerificationStatus != domain.StatusApproved || !vendor.IsActive {
			return fmt.Errorf("%w: vendor %s is not approved", domain.ErrInvalidTransition, vendor.CompanyName)
		}

		if err := p.TransitionTo(domain.ProductVendorAssigned, s.nowFn()); err != nil {
			return err
		}
		if err := s.vendors.ReserveWorkload(ctx, vendorID); err != nil {
			return err
		}
		p.AssignedVendorID = &vendorID
		product = p
		return s.products.Update(ctx, p)
	})
	if err != nil {
		logAssignmentFailure(&log, err)
		return nil, fmt.Errorf("assign vendor: %w", err)
	}

	log.Info().Msg("Vendor assigned")
	return product, nil
}

// AssignCollector reserves a pickup slot. Losing a capacity race surfaces
// as domain.ErrConflict so the caller may retry with another collector.
func (s *AssignmentService) AssignCollector(ctx context.Context, productID, collectorID uuid.UUID) (*domain.Product, error) {
	log := s.log.With().
		Str("product_id", productID.String()).
		Str("collector_id", collectorID.String()).
		Logger()

	var product *domain.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		collector, err := s.collectors.GetByID(ctx, collectorID)
		if err != nil {
			return err
		}
		if !collector.IsVerified || collector.IsBlacklisted {
			return fmt.Errorf("%w: collector is not verified", domain.ErrInvalidTransition)
		}
		pickup, err := s.pickups.GetByProductID(ctx, productID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: seller has not requested a pickup", domain.ErrInvalidTransition)
			}
			return err
		}

		now := s.nowFn()
		if err := p.TransitionTo(domain.ProductCollectorAssigned, now); err != nil {
			return err
		}
		if err := s.collectors.ReserveSlot(ctx, collectorID, s.rules.MaxConcurrentPickups); err != nil {
			return err
		}

		p.AssignedCollectorID = &collectorID
		if err := s.products.Update(ctx, p); err != nil {
			return err
		}

		pickup.CollectorID = &collectorID
		pickup.Status = domain.PickupAssigned
		pickup.AssignedAt = &now
		product = p
		return s.pickups.Update(ctx, pickup)
	})
	if err != nil {
		logAssignmentFailure(&log, err)
		return nil, fmt.Errorf("assign collector: %w", err)
	}

	log.Info().Msg("Collector assigned")
	return product, nil
}

func logAssignmentFailure(log *zerolog.Logger, err error) {
	switch {
	case domain.IsRetryable(err):
		log.Warn().Err(err).Msg("Assignment lost a capacity race")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidTransition):
		log.Info().Err(err).Msg("Assignment refused")
	default:
		log.Error().Err(err).Msg("Assignment failed")
	}
}
