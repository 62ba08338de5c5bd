package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FraudDecision is the admin verdict on a flag.
type FraudDecision string

const (
	DecisionVendorCorrect FraudDecision = "vendor_correct"
	DecisionVendorFraud   FraudDecision = "vendor_fraud"
)

// ParseFraudDecision rejects unknown decisions.
func ParseFraudDecision(s string) (FraudDecision, error) {
	switch d := FraudDecision(strings.ToLower(strings.TrimSpace(s))); d {
	case DecisionVendorCorrect, DecisionVendorFraud:
		return d, nil
	default:
		return "", fmt.Errorf("%w: unknown decision %q", ErrInvalidInput, s)
	}
}

// VarianceDetails records why a flag was raised. Stored as jsonb.
type VarianceDetails struct {
	EstimatedValue     decimal.Decimal `json:"estimated_value"`
	FinalValue         decimal.Decimal `json:"final_value"`
	VariancePercentage decimal.Decimal `json:"variance_percentage"`
	Threshold          decimal.Decimal `json:"threshold"`
	Notes              string          `json:"notes,omitempty"`
}

// FraudFlag marks a suspicious vendor evaluation.
type FraudFlag struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	VendorID        uuid.UUID       `json:"vendor_id"`
	RiskScore       decimal.Decimal `json:"risk_score"`
	VarianceDetails VarianceDetails `json:"variance_details"`
	AdminReviewed   bool            `json:"admin_reviewed"`
	AdminDecision   *FraudDecision  `json:"admin_decision"`
	AdminNotes      string          `json:"admin_notes"`
	ReviewedBy      *uuid.UUID      `json:"reviewed_by"`
	CreatedAt       time.Time       `json:"created_at"`
	ReviewedAt      *time.Time      `json:"reviewed_at"`
}

// NewFraudFlag opens an unreviewed flag.
func NewFraudFlag(productID, vendorID uuid.UUID, risk decimal.Decimal, details VarianceDetails) *FraudFlag {
	return &FraudFlag{
		ID:              uuid.New(),
		ProductID:       productID,
		VendorID:        vendorID,
		RiskScore:       risk,
		VarianceDetails: details,
	}
}

// Resolve records the admin verdict. A flag can be resolved exactly once.
func (f *FraudFlag) Resolve(adminID uuid.UUID, decision FraudDecision, notes string, now time.Time) error {
	if f.AdminReviewed {
		return fmt.Errorf("%w: flag %s", ErrAlreadyReviewed, f.ID)
	}
	f.AdminReviewed = true
	f.AdminDecision = &decision
	f.AdminNotes = notes
	f.ReviewedBy = &adminID
	f.ReviewedAt = &now
	return nil
}
