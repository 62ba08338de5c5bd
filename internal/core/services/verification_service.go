package services

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// VerificationService applies admin decisions to vendor and collector
// profiles. Each action locks the profile row for the length of its
// transaction.
type VerificationService struct {
	tx         ports.Transactor
	vendors    ports.VendorRepository
	collectors ports.CollectorRepository
	bus        ports.EventBus
	log        zerolog.Logger
	nowFn      func() time.Time
}

var _ ports.VerificationService = (*VerificationService)(nil)

// NewVerificationService wires the verification workflow.
func NewVerificationService(
	tx ports.Transactor,
	vendors ports.VendorRepository,
	collectors ports.CollectorRepository,
	bus ports.EventBus,
	baseLogger *zerolog.Logger,
) *VerificationService {
	return &VerificationService{
		tx:         tx,
		vendors:    vendors,
		collectors: collectors,
		bus:        bus,
		log:        baseLogger.With().Str("component", "verification_service").Logger(),
		nowFn:      time.Now,
	}
}

var vendorMessages = map[domain.VerificationAction]string{
	domain.ActionApprove:   "✅ %s approved. They can now start operations.",
	domain.ActionReject:    "❌ %s rejected. Access denied.",
	domain.ActionReview:    "🔍 %s marked as under review.",
	domain.ActionSuspend:   "🚫 %s suspended.",
	domain.ActionUnsuspend: "✅ %s unsuspended.",
}

// ApplyVendorAction runs one admin action through the vendor state machine.
func (s *VerificationService) ApplyVendorAction(ctx context.Context, adminID, vendorID uuid.UUID, action domain.VerificationAction) (ports.VerificationResult, error) {
	log := s.log.With().
		Str("admin_id", adminID.String()).
		Str("vendor_id", vendorID.String()).
		Str("action", string(action)).
		Logger()

	var (
		result ports.VerificationResult
		event  ports.StatusChangedEvent
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		vendor, err := s.vendors.GetForUpdate(ctx, vendorID)
		if err != nil {
			return err
		}

		from := vendor.VerificationStatus
		if err := vendor.Apply(action, s.nowFn()); err != nil {
			return err
		}
		if err := s.vendors.Update(ctx, vendor); err != nil {
			return err
		}

		result = ports.VerificationResult{
			Status:  vendor.VerificationStatus,
			Message: fmt.Sprintf(vendorMessages[action], vendor.CompanyName),
		}
		event = ports.StatusChangedEvent{
			EntityID: vendor.ID,
			UserID:   vendor.UserID,
			AdminID:  adminID,
			Action:   action,
			From:     from,
			To:       vendor.VerificationStatus,
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("Vendor action refused")
		return ports.VerificationResult{}, fmt.Errorf("vendor %s: %s: %w", vendorID, action, err)
	}

	log.Info().Str("from", string(event.From)).Str("to", string(event.To)).Msg("Vendor status changed")
	publish(ctx, s.bus, &s.log, ports.TopicVendorStatusChanged, event)
	return result, nil
}

// ApplyCollectorAction runs one admin action through the collector state
// machine. Approving a collector with missing documents is not an error: the
// result carries documents_pending and lists what is missing.
func (s *VerificationService) ApplyCollectorAction(ctx context.Context, adminID, collectorID uuid.UUID, action domain.VerificationAction, reason string) (ports.VerificationResult, error) {
	log := s.log.With().
		Str("admin_id", adminID.String()).
		Str("collector_id", collectorID.String()).
		Str("action", string(action)).
		Logger()

	var (
		result ports.VerificationResult
		event  ports.StatusChangedEvent
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		collector, err := s.collectors.GetForUpdate(ctx, collectorID)
		if err != nil {
			return err
		}

		from := collector.VerificationStatus
		to, err := collector.Apply(action, adminID, reason, s.nowFn())
		if err != nil {
			return err
		}
		if err := s.collectors.Update(ctx, collector); err != nil {
			return err
		}

		result = ports.VerificationResult{Status: to, Message: collectorMessage(action, collector)}
		event = ports.StatusChangedEvent{
			EntityID: collector.ID,
			UserID:   collector.UserID,
			AdminID:  adminID,
			Action:   action,
			From:     from,
			To:       to,
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("Collector action refused")
		return ports.VerificationResult{}, fmt.Errorf("collector %s: %s: %w", collectorID, action, err)
	}

	log.Info().Str("from", string(event.From)).Str("to", string(event.To)).Msg("Collector status changed")
	publish(ctx, s.bus, &s.log, ports.TopicCollectorStatusChanged, event)
	return result, nil
}

func collectorMessage(action domain.VerificationAction, c *domain.Collector) string {
	switch action {
	case domain.ActionApprove:
		if c.VerificationStatus == domain.StatusDocumentsPending {
			return "📄 Collector is missing documents: " + strings.Join(c.MissingDocuments(), ", ")
		}
		return "✅ Collector approved and available for pickups."
	case domain.ActionReject:
		return "❌ Collector rejected."
	case domain.ActionReview:
		return "🔍 Collector marked as under review."
	case domain.ActionRequestDocuments:
		return "📄 Collector marked as documents pending."
	case domain.ActionSuspend:
		return "🚫 Collector suspended."
	case domain.ActionUnsuspend:
		return "✅ Collector unsuspended."
	case domain.ActionBlacklist:
		return "⛔ Collector blacklisted."
	}
	return string(c.VerificationStatus)
}

// PendingVendors lists vendors waiting for a decision.
func (s *VerificationService) PendingVendors(ctx context.Context) ([]*domain.Vendor, error) {
	return s.vendors.ListByStatus(ctx, domain.StatusPending, domain.StatusUnderReview)
}

// PendingCollectors lists collectors waiting for a decision.
func (s *VerificationService) PendingCollectors(ctx context.Context) ([]*domain.Collector, error) {
	return s.collectors.ListByStatus(ctx, domain.StatusPending, domain.StatusDocumentsPending, domain.StatusUnderReview)
}

// SetForensicsScore stores an admin's forensics assessment of a vendor.
func (s *VerificationService) SetForensicsScore(ctx context.Context, vendorID uuid.UUID, score decimal.Decimal) (*domain.Vendor, error) {
	var vendor *domain.Vendor
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		v, err := s.vendors.GetForUpdate(ctx, vendorID)
		if err != nil {
			return err
		}
		if err := v.SetForensicsScore(score); err != nil {
			return err
		}
		vendor = v
		return s.vendors.Update(ctx, v)
	})
	if err != nil {
		return nil, fmt.Errorf("set vendor %s forensics score: %w", vendorID, err)
	}
	s.log.Info().
		Str("vendor_id", vendorID.String()).
		Str("forensics_score", vendor.ForensicsScore.String()).
		Msg("Vendor forensics score updated")
	return vendor, nil
}

// ResetVendorRating restores the default rating and clears evaluation counters.
func (s *VerificationService) ResetVendorRating(ctx context.Context, vendorID uuid.UUID) (*domain.Vendor, error) {
	var vendor *domain.Vendor
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		v, err := s.vendors.GetForUpdate(ctx, vendorID)
		if err != nil {
			return err
		}
		v.ResetRating()
		vendor = v
		return s.vendors.Update(ctx, v)
	})
	if err != nil {
		return nil, fmt.Errorf("reset vendor %s rating: %w", vendorID, err)
	}
	s.log.Info().Str("vendor_id", vendorID.String()).Msg("Vendor rating reset")
	return vendor, nil
}

// ResetCollectorStats restores the default rating and clears deliveries.
func (s *VerificationService) ResetCollectorStats(ctx context.Context, collectorID uuid.UUID) (*domain.Collector, error) {
	var collector *domain.Collector
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.collectors.GetForUpdate(ctx, collectorID)
		if err != nil {
			return err
		}
		c.ResetStats()
		collector = c
		return s.collectors.Update(ctx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("reset collector %s stats: %w", collectorID, err)
	}
	s.log.Info().Str("collector_id", collectorID.String()).Msg("Collector stats reset")
	return collector, nil
}
