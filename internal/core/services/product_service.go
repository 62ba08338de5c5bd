package services

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"ERecyclo/internal/shared/config"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProductService drives a product from upload to recycling.
type ProductService struct {
	tx         ports.Transactor
	products   ports.ProductRepository
	pickups    ports.PickupRepository
	vendors    ports.VendorRepository
	collectors ports.CollectorRepository
	fraud      ports.FraudService
	rules      config.BusinessConfig
	log        zerolog.Logger
	nowFn      func() time.Time
}

var _ ports.ProductService = (*ProductService)(nil)

func NewProductService(
	tx ports.Transactor,
	products ports.ProductRepository,
	pickups ports.PickupRepository,
	vendors ports.VendorRepository,
	collectors ports.CollectorRepository,
	fraud ports.FraudService,
	rules config.BusinessConfig,
	baseLogger *zerolog.Logger,
) *ProductService {
	return &ProductService{
		tx:         tx,
		products:   products,
		pickups:    pickups,
		vendors:    vendors,
		collectors: collectors,
		fraud:      fraud,
		rules:      rules,
		log:        baseLogger.With().Str("component", "product_service").Logger(),
		nowFn:      time.Now,
	}
}

// --- Customer ---

// Upload stores a new pending product for the seller.
func (s *ProductService) Upload(ctx context.Context, sellerID uuid.UUID, in ports.UploadProductInput) (*domain.Product, error) {
	p, err := domain.NewProduct(sellerID, strings.TrimSpace(in.Name), in.Description, strings.TrimSpace(in.Category), in.Image, in.WeightApprox, in.EstimatedValue)
	if err != nil {
		return nil, err
	}
	now := s.nowFn()
	p.CreatedAt, p.UpdatedAt = now, now

	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.log.Info().Str("product_id", p.ID.String()).Str("seller_id", sellerID.String()).Msg("Product uploaded")
	return p, nil
}

// RequestPickup opens the single pickup request a product may have.
func (s *ProductService) RequestPickup(ctx context.Context, sellerID, productID uuid.UUID, in ports.PickupInput) (*domain.PickupRequest, error) {
	if strings.TrimSpace(in.LocationText) == "" {
		return nil, fmt.Errorf("%w: pickup location is required", domain.ErrInvalidInput)
	}

	p, err := s.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.ProductPending && p.Status != domain.ProductVendorAssigned {
		return nil, fmt.Errorf("%w: product is %s", domain.ErrInvalidTransition, p.Status)
	}

	now := s.nowFn()
	req := &domain.PickupRequest{
		ProductID:          p.ID,
		SellerID:           sellerID,
		PickupLocationText: strings.TrimSpace(in.LocationText),
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
		Status:             domain.PickupPending,
		SellerNotes:        in.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.pickups.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create pickup for product %s: %w", productID, err)
	}
	s.log.Info().Int64("pickup_id", req.ID).Str("product_id", productID.String()).Msg("Pickup requested")
	return req, nil
}

// ListMine returns the seller's products, newest first.
func (s *ProductService) ListMine(ctx context.Context, sellerID uuid.UUID) ([]*domain.Product, error) {
	return s.products.ListBySeller(ctx, sellerID)
}

// Cancel withdraws a product that has not been picked up yet and releases
// any capacity reserved for it.
func (s *ProductService) Cancel(ctx context.Context, sellerID, productID uuid.UUID) (*domain.Product, error) {
	var product *domain.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p.SellerID != sellerID {
			return fmt.Errorf("%w: not your product", domain.ErrForbidden)
		}

		now := s.nowFn()
		if err := p.TransitionTo(domain.ProductCancelled, now); err != nil {
			return err
		}
		p.UpdatedAt = now

		if p.AssignedVendorID != nil {
			if err := s.vendors.ReleaseWorkload(ctx, *p.AssignedVendorID); err != nil {
				return err
			}
		}
		if p.AssignedCollectorID != nil {
			if err := s.collectors.ReleaseSlot(ctx, *p.AssignedCollectorID, false); err != nil {
				return err
			}
		}
		if err := s.products.Update(ctx, p); err != nil {
			return err
		}
		product = p

		pickup, err := s.pickups.GetByProductID(ctx, productID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		pickup.Status = domain.PickupCancelled
		pickup.UpdatedAt = now
		return s.pickups.Update(ctx, pickup)
	})
	if err != nil {
		return nil, fmt.Errorf("cancel product %s: %w", productID, err)
	}
	s.log.Info().Str("product_id", productID.String()).Msg("Product cancelled")
	return product, nil
}

func (s *ProductService) ownedProduct(ctx context.Context, sellerID, productID uuid.UUID) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, fmt.Errorf("%w: not your product", domain.ErrForbidden)
	}
	return p, nil
}

// --- Collector ---

// MarkPickedUp records that the assigned collector has the item.
func (s *ProductService) MarkPickedUp(ctx context.Context, collectorUserID, productID uuid.UUID) (*domain.Product, error) {
	return s.advancePickup(ctx, collectorUserID, productID, domain.ProductPickedUp)
}

// MarkDelivered records the hand-over to the vendor and frees the
// collector's pickup slot.
func (s *ProductService) MarkDelivered(ctx context.Context, collectorUserID, productID uuid.UUID) (*domain.Product, error) {
	return s.advancePickup(ctx, collectorUserID, productID, domain.ProductDelivered)
}

func (s *ProductService) advancePickup(ctx context.Context, collectorUserID, productID uuid.UUID, to domain.ProductStatus) (*domain.Product, error) {
	collector, err := s.collectors.GetByUserID(ctx, collectorUserID)
	if err != nil {
		return nil, fmt.Errorf("collector profile: %w", err)
	}

	var product *domain.Product
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p.AssignedCollectorID == nil || *p.AssignedCollectorID != collector.ID {
			return fmt.Errorf("%w: product is not assigned to you", domain.ErrForbidden)
		}

		now := s.nowFn()
		if err := p.TransitionTo(to, now); err != nil {
			return err
		}
		p.UpdatedAt = now
		if err := s.products.Update(ctx, p); err != nil {
			return err
		}

		pickup, err := s.pickups.GetByProductID(ctx, productID)
		if err != nil {
			return err
		}
		pickup.UpdatedAt = now
		if to == domain.ProductDelivered {
			pickup.Status = domain.PickupCompleted
			pickup.CompletedAt = &now
			if err := s.collectors.ReleaseSlot(ctx, collector.ID, true); err != nil {
				return err
			}
		} else {
			pickup.Status = domain.PickupInTransit
		}
		product = p
		return s.pickups.Update(ctx, pickup)
	})
	if err != nil {
		return nil, fmt.Errorf("mark %s: %w", to, err)
	}

	s.log.Info().
		Str("product_id", productID.String()).
		Str("collector_id", collector.ID.String()).
		Str("status", string(to)).
		Msg("Pickup advanced")
	return product, nil
}

// ToggleAvailability takes a collector on or off duty.
func (s *ProductService) ToggleAvailability(ctx context.Context, collectorUserID uuid.UUID, available bool) (*domain.Collector, error) {
	profile, err := s.collectors.GetByUserID(ctx, collectorUserID)
	if err != nil {
		return nil, fmt.Errorf("collector profile: %w", err)
	}

	var collector *domain.Collector
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.collectors.GetForUpdate(ctx, profile.ID)
		if err != nil {
			return err
		}
		if err := c.SetAvailability(available); err != nil {
			return err
		}
		collector = c
		return s.collectors.Update(ctx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("toggle availability: %w", err)
	}
	s.log.Info().Str("collector_id", collector.ID.String()).Bool("available", available).Msg("Availability changed")
	return collector, nil
}

// --- Vendor ---

// ListAssigned returns every product routed to the vendor.
func (s *ProductService) ListAssigned(ctx context.Context, vendorUserID uuid.UUID) ([]*domain.Product, error) {
	vendor, err := s.vendors.GetByUserID(ctx, vendorUserID)
	if err != nil {
		return nil, fmt.Errorf("vendor profile: %w", err)
	}
	return s.products.ListByVendor(ctx, vendor.ID)
}

// Evaluate records the vendor's final valuation. A risk score above the
// threshold disputes the product and raises a fraud flag; otherwise the
// product is recycled. Either way the vendor's workload is released.
func (s *ProductService) Evaluate(ctx context.Context, vendorUserID, productID uuid.UUID, in ports.EvaluationInput) (ports.EvaluationResult, error) {
	if in.FinalValue.IsNegative() {
		return ports.EvaluationResult{}, fmt.Errorf("%w: final value must not be negative", domain.ErrInvalidInput)
	}
	profile, err := s.vendors.GetByUserID(ctx, vendorUserID)
	if err != nil {
		return ports.EvaluationResult{}, fmt.Errorf("vendor profile: %w", err)
	}

	var result ports.EvaluationResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p.AssignedVendorID == nil || *p.AssignedVendorID != profile.ID {
			return fmt.Errorf("%w: product is not assigned to you", domain.ErrForbidden)
		}

		risk, details := domain.ComputeRiskScore(p.EstimatedValue, in.FinalValue, s.rules.VarianceThreshold, s.rules.RiskScoreThreshold)
		details.Notes = in.Notes

		flagged := risk.GreaterThan(s.rules.RiskScoreThreshold)
		next := domain.ProductRecycled
		if flagged {
			next = domain.ProductDisputed
		}

		now := s.nowFn()
		if err := p.TransitionTo(next, now); err != nil {
			return err
		}
		final := in.FinalValue
		p.FinalValue = &final
		p.RiskScore = risk
		p.EvaluationNotes = in.Notes
		p.UpdatedAt = now
		if err := s.products.Update(ctx, p); err != nil {
			return err
		}
		result.Product = p

		if flagged {
			flag, err := s.fraud.RaiseFlag(ctx, p, risk, details)
			if err != nil {
				return err
			}
			result.Flag = flag
		} else {
			vendor, err := s.vendors.GetForUpdate(ctx, profile.ID)
			if err != nil {
				return err
			}
			vendor.TotalRecycled++
			if err := s.vendors.Update(ctx, vendor); err != nil {
				return err
			}
		}
		return s.vendors.ReleaseWorkload(ctx, profile.ID)
	})
	if err != nil {
		return ports.EvaluationResult{}, fmt.Errorf("evaluate product %s: %w", productID, err)
	}

	s.log.Info().
		Str("product_id", productID.String()).
		Str("vendor_id", profile.ID.String()).
		Str("risk", result.Product.RiskScore.String()).
		Bool("flagged", result.Flag != nil).
		Msg("Product evaluated")
	return result, nil
}

// --- Shared ---

// Detail returns the product with its pickup and timeline. Only the seller,
// the assigned vendor or collector, and admins may view it.
func (s *ProductService) Detail(ctx context.Context, viewer *domain.User, productID uuid.UUID) (*ports.ProductDetail, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, viewer, p); err != nil {
		return nil, err
	}

	detail := &ports.ProductDetail{Product: p, Timeline: p.Timeline()}
	pickup, err := s.pickups.GetByProductID(ctx, productID)
	switch {
	case err == nil:
		detail.Pickup = pickup
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return detail, nil
}

func (s *ProductService) checkAccess(ctx context.Context, viewer *domain.User, p *domain.Product) error {
	denied := fmt.Errorf("%w: access denied", domain.ErrForbidden)

	switch viewer.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleCustomer:
		if p.SellerID == viewer.ID {
			return nil
		}
	case domain.RoleVendor:
		vendor, err := s.vendors.GetByUserID(ctx, viewer.ID)
		if err != nil {
			return denied
		}
		if p.AssignedVendorID != nil && *p.AssignedVendorID == vendor.ID {
			return nil
		}
	case domain.RoleCollector:
		collector, err := s.collectors.GetByUserID(ctx, viewer.ID)
		if err != nil {
			return denied
		}
		if p.AssignedCollectorID != nil && *p.AssignedCollectorID == collector.ID {
			return nil
		}
	}
	return denied
}
