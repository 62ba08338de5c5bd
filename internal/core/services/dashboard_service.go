package services

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"ERecyclo/internal/shared/config"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	recentFlagLimit    = 5
	recentProductLimit = 4
)

// DashboardService assembles the per-role overview pages.
type DashboardService struct {
	vendors    ports.VendorRepository
	collectors ports.CollectorRepository
	products   ports.ProductRepository
	pickups    ports.PickupRepository
	flags      ports.FraudFlagRepository
	site       config.Site
	log        zerolog.Logger
	nowFn      func() time.Time
}

var _ ports.DashboardService = (*DashboardService)(nil)

func NewDashboardService(
	vendors ports.VendorRepository,
	collectors ports.CollectorRepository,
	products ports.ProductRepository,
	pickups ports.PickupRepository,
	flags ports.FraudFlagRepository,
	site config.Site,
	baseLogger *zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		vendors:    vendors,
		collectors: collectors,
		products:   products,
		pickups:    pickups,
		flags:      flags,
		site:       site,
		log:        baseLogger.With().Str("component", "dashboard_service").Logger(),
		nowFn:      time.Now,
	}
}

// Customer shows a seller's uploads and the state of their pickups.
func (s *DashboardService) Customer(ctx context.Context, seller *domain.User) (*ports.CustomerDashboard, error) {
	products, err := s.products.ListBySeller(ctx, seller.ID)
	if err != nil {
		return nil, fmt.Errorf("seller products: %w", err)
	}
	pending, err := s.pickups.CountBySeller(ctx, seller.ID, domain.PickupPending, domain.PickupAssigned)
	if err != nil {
		return nil, fmt.Errorf("count pending pickups: %w", err)
	}
	completed, err := s.pickups.CountBySeller(ctx, seller.ID, domain.PickupCompleted)
	if err != nil {
		return nil, fmt.Errorf("count completed pickups: %w", err)
	}

	recent := products
	if len(recent) > recentProductLimit {
		recent = recent[:recentProductLimit]
	}
	return &ports.CustomerDashboard{
		TotalUploads:      len(products),
		PendingPickups:    pending,
		CompletedPickups:  completed,
		RecentProducts:    recent,
		ProfileCompletion: seller.ProfileCompletion(),
	}, nil
}

// Admin summarises what is waiting for moderation.
func (s *DashboardService) Admin(ctx context.Context) (*ports.AdminDashboard, error) {
	pending, err := s.vendors.CountByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending vendors: %w", err)
	}
	open, err := s.flags.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("count open flags: %w", err)
	}
	total, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	recent, err := s.flags.ListRecentOpen(ctx, recentFlagLimit)
	if err != nil {
		return nil, fmt.Errorf("recent flags: %w", err)
	}

	s.log.Debug().Int("pending_vendors", pending).Int("open_flags", open).Msg("Admin dashboard built")
	return &ports.AdminDashboard{
		SiteHeader:     s.site.Header,
		SiteTitle:      s.site.Title,
		PendingVendors: pending,
		OpenFlags:      open,
		TotalProducts:  total,
		RecentFlags:    recent,
	}, nil
}

// Vendor shows the evaluation queue and incoming pickups.
func (s *DashboardService) Vendor(ctx context.Context, vendorUserID uuid.UUID) (*ports.VendorDashboard, error) {
	vendor, err := s.vendors.GetByUserID(ctx, vendorUserID)
	if err != nil {
		return nil, fmt.Errorf("vendor profile: %w", err)
	}
	pending, err := s.products.ListByVendor(ctx, vendor.ID, domain.ProductDelivered)
	if err != nil {
		return nil, err
	}
	incoming, err := s.products.ListByVendor(ctx, vendor.ID,
		domain.ProductVendorAssigned, domain.ProductCollectorAssigned, domain.ProductPickedUp)
	if err != nil {
		return nil, err
	}

	return &ports.VendorDashboard{
		Vendor:             vendor,
		PendingEvaluations: pending,
		IncomingPickups:    incoming,
		WorkloadPercentage: vendor.WorkloadPercentage().Round(2),
	}, nil
}

// Collector shows active pickups and today's deliveries.
func (s *DashboardService) Collector(ctx context.Context, collectorUserID uuid.UUID) (*ports.CollectorDashboard, error) {
	collector, err := s.collectors.GetByUserID(ctx, collectorUserID)
	if err != nil {
		return nil, fmt.Errorf("collector profile: %w", err)
	}
	active, err := s.products.ListByCollector(ctx, collector.ID,
		domain.ProductCollectorAssigned, domain.ProductPickedUp)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	delivered, err := s.products.CountDeliveredSince(ctx, collector.ID, startOfDay)
	if err != nil {
		return nil, err
	}

	return &ports.CollectorDashboard{
		Collector:       collector,
		ActivePickups:   active,
		DeliveriesToday: delivered,
	}, nil
}
