package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus tracks an item through the pickup and recycling pipeline.
type ProductStatus string

const (
	ProductPending           ProductStatus = "pending"
	ProductVendorAssigned    ProductStatus = "vendor_assigned"
	ProductCollectorAssigned ProductStatus = "collector_assigned"
	ProductPickedUp          ProductStatus = "picked_up"
	ProductDelivered         ProductStatus = "delivered"
	ProductRecycled          ProductStatus = "recycled"
	ProductDisputed          ProductStatus = "disputed"
	ProductCancelled         ProductStatus = "cancelled"
)

var productTransitions = map[ProductStatus][]ProductStatus{
	ProductPending:           {ProductVendorAssigned, ProductCancelled},
	ProductVendorAssigned:    {ProductCollectorAssigned, ProductCancelled},
	ProductCollectorAssigned: {ProductPickedUp, ProductCancelled},
	ProductPickedUp:          {ProductDelivered},
	ProductDelivered:         {ProductRecycled, ProductDisputed},
}

// CanTransition reports whether the product pipeline allows from -> to.
func (s ProductStatus) CanTransition(to ProductStatus) bool {
	for _, allowed := range productTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Product is an item uploaded by a seller for recycling.
type Product struct {
	ID                  uuid.UUID        `json:"id"`
	SellerID            uuid.UUID        `json:"seller_id"`
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	Category            string           `json:"category"`
	Image               string           `json:"image"`
	WeightApprox        decimal.Decimal  `json:"weight_approx"`
	Status              ProductStatus    `json:"status"`
	AssignedVendorID    *uuid.UUID       `json:"assigned_vendor_id"`
	AssignedCollectorID *uuid.UUID       `json:"assigned_collector_id"`
	EstimatedValue      decimal.Decimal  `json:"estimated_value"`
	FinalValue          *decimal.Decimal `json:"final_value"`
	RiskScore           decimal.Decimal  `json:"risk_score"`
	EvaluationNotes     string           `json:"evaluation_notes"`
	VendorAssignedAt    *time.Time       `json:"vendor_assigned_at"`
	AssignedAt          *time.Time       `json:"assigned_at"` // Collector assignment
	PickedUpAt          *time.Time       `json:"picked_up_at"`
	DeliveredAt         *time.Time       `json:"delivered_at"`
	CompletedAt         *time.Time       `json:"completed_at"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// NewProduct validates an upload and returns a pending product.
func NewProduct(sellerID uuid.UUID, name, description, category, image string, weight, estimated decimal.Decimal) (*Product, error) {
	if name == "" || category == "" {
		return nil, fmt.Errorf("%w: name and category are required", ErrInvalidInput)
	}
	if weight.IsNegative() || estimated.IsNegative() {
		return nil, fmt.Errorf("%w: weight and estimated value must not be negative", ErrInvalidInput)
	}
	return &Product{
		ID:             uuid.New(),
		SellerID:       sellerID,
		Name:           name,
		Description:    description,
		Category:       category,
		Image:          image,
		WeightApprox:   weight,
		Status:         ProductPending,
		EstimatedValue: estimated,
		RiskScore:      decimal.Zero,
	}, nil
}

// TransitionTo moves the product and stamps the matching timestamp.
func (p *Product) TransitionTo(to ProductStatus, now time.Time) error {
	if !p.Status.CanTransition(to) {
		return fmt.Errorf("%w: product cannot move from %q to %q", ErrInvalidTransition, p.Status, to)
	}
	switch to {
	case ProductVendorAssigned:
		p.VendorAssignedAt = &now
	case ProductCollectorAssigned:
		p.AssignedAt = &now
	case ProductPickedUp:
		p.PickedUpAt = &now
	case ProductDelivered:
		p.DeliveredAt = &now
	case ProductRecycled, ProductDisputed:
		p.CompletedAt = &now
	}
	p.Status = to
	return nil
}

// TimelineEntry is one step of a product's history, as shown to its viewers.
type TimelineEntry struct {
	Status ProductStatus `json:"status"`
	At     time.Time     `json:"at"`
}

// Timeline lists the reached milestones in order.
func (p *Product) Timeline() []TimelineEntry {
	entries := []TimelineEntry{{Status: ProductPending, At: p.CreatedAt}}
	add := func(s ProductStatus, at *time.Time) {
		if at != nil {
			entries = append(entries, TimelineEntry{Status: s, At: *at})
		}
	}
	add(ProductVendorAssigned, p.VendorAssignedAt)
	add(ProductCollectorAssigned, p.AssignedAt)
	add(ProductPickedUp, p.PickedUpAt)
	add(ProductDelivered, p.DeliveredAt)
	if p.Status == ProductRecycled || p.Status == ProductDisputed {
		add(p.Status, p.CompletedAt)
	}
	if p.Status == ProductCancelled {
		entries = append(entries, TimelineEntry{Status: ProductCancelled, At: p.UpdatedAt})
	}
	return entries
}

// PickupStatus of a pickup request.
type PickupStatus string

const (
	PickupPending   PickupStatus = "pending"
	PickupAssigned  PickupStatus = "assigned"
	PickupInTransit PickupStatus = "in_transit"
	PickupCompleted PickupStatus = "completed"
	PickupCancelled PickupStatus = "cancelled"
)

// PickupRequest is the seller's request to have a product collected.
type PickupRequest struct {
	ID                 int64            `json:"id"`
	ProductID          uuid.UUID        `json:"product_id"`
	SellerID           uuid.UUID        `json:"seller_id"`
	CollectorID        *uuid.UUID       `json:"collector_id"`
	PickupLocationText string           `json:"pickup_location_text"`
	Latitude           *decimal.Decimal `json:"latitude"`
	Longitude          *decimal.Decimal `json:"longitude"`
	Status             PickupStatus     `json:"status"`
	SellerNotes        string           `json:"seller_notes"`
	CollectorNotes     string           `json:"collector_notes"`
	AssignedAt         *time.Time       `json:"assigned_at"`
	CompletedAt        *time.Time       `json:"completed_at"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}
