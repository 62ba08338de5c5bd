package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	maxRating        = decimal.NewFromInt(5)
	fraudPenalty     = decimal.RequireFromString("0.5")
	maxWorkloadShare = decimal.NewFromInt(90)
)

// Vendor is a recycling company evaluating delivered items.
type Vendor struct {
	ID                    uuid.UUID          `json:"id"`
	UserID                uuid.UUID          `json:"user_id"`
	CompanyName           string             `json:"company_name"`
	LicenseNumber         string             `json:"license_number"`
	LicenseDocument       string             `json:"license_document"` // File reference
	LicenseVerified       bool               `json:"license_verified"`
	VerificationStatus    VerificationStatus `json:"verification_status"`
	TrustScore            decimal.Decimal    `json:"trust_score"`
	ForensicsScore        decimal.Decimal    `json:"forensics_score"`
	GSTNumber             *string            `json:"gst_number"` // Encrypted at rest
	Specializations       []string           `json:"specializations"`
	ProcessingCapacity    int                `json:"processing_capacity"`
	CurrentWorkload       int                `json:"current_workload"`
	Rating                decimal.Decimal    `json:"rating"`
	TotalRecycled         int                `json:"total_recycled"`
	SuccessfulEvaluations int                `json:"successful_evaluations"`
	DisputedEvaluations   int                `json:"disputed_evaluations"`
	IsActive              bool               `json:"is_active"`
	SuspensionCount       int                `json:"suspension_count"`
	LastSuspensionDate    *time.Time         `json:"last_suspension_date"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

// NewVendor builds a vendor profile in its registration state.
func NewVendor(userID uuid.UUID, companyName, licenseNumber, licenseDocument string, capacity int) (*Vendor, error) {
	if companyName == "" || licenseNumber == "" || licenseDocument == "" {
		return nil, fmt.Errorf("%w: company name, license number and license document are required", ErrInvalidInput)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: processing capacity must be positive", ErrInvalidInput)
	}
	return &Vendor{
		ID:                 uuid.New(),
		UserID:             userID,
		CompanyName:        companyName,
		LicenseNumber:      licenseNumber,
		LicenseDocument:    licenseDocument,
		VerificationStatus: StatusPending,
		TrustScore:         decimal.Zero,
		ForensicsScore:     decimal.Zero,
		ProcessingCapacity: capacity,
		Rating:             maxRating,
		IsActive:           true,
	}, nil
}

// WorkloadPercentage is current workload over processing capacity.
func (v *Vendor) WorkloadPercentage() decimal.Decimal {
	if v.ProcessingCapacity <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(v.CurrentWorkload)).
		Div(decimal.NewFromInt(int64(v.ProcessingCapacity))).
		Mul(decimal.NewFromInt(100))
}

// CanAcceptWork mirrors the eligibility filter used for manual dispatch.
func (v *Vendor) CanAcceptWork() bool {
	return v.IsActive &&
		v.VerificationStatus == StatusApproved &&
		v.WorkloadPercentage().LessThan(maxWorkloadShare)
}

// Apply runs an admin action through the vendor transition table and
// performs its side effects.
func (v *Vendor) Apply(action VerificationAction, now time.Time) error {
	next, err := NextVendorStatus(v.VerificationStatus, action)
	if err != nil {
		return err
	}

	switch action {
	case ActionApprove:
		v.IsActive = true
		v.LicenseVerified = true
	case ActionReject:
		v.IsActive = false
	case ActionSuspend:
		v.IsActive = false
		v.LastSuspensionDate = &now
	case ActionUnsuspend:
		v.IsActive = true
	}
	v.VerificationStatus = next
	return nil
}

// RecalculateTrustScore refreshes the stored trust score from the current
// forensics score and rating.
func (v *Vendor) RecalculateTrustScore() {
	v.TrustScore = ComputeTrustScore(v.ForensicsScore, v.Rating)
}

// SetForensicsScore records the forensics assessment. The trust score is
// not refreshed until the next recalculation.
func (v *Vendor) SetForensicsScore(score decimal.Decimal) error {
	if score.IsNegative() || score.GreaterThan(hundred) {
		return fmt.Errorf("%w: forensics score must be between 0 and 100", ErrInvalidInput)
	}
	v.ForensicsScore = score.Round(2)
	return nil
}

// ApplyFraudPenalty lowers the rating by 0.5 (never below 0) and records
// the incident.
func (v *Vendor) ApplyFraudPenalty() {
	v.Rating = v.Rating.Sub(fraudPenalty)
	if v.Rating.IsNegative() {
		v.Rating = decimal.Zero
	}
	v.SuspensionCount++
	v.DisputedEvaluations++
}

// ResetRating restores the default rating and clears evaluation counters.
func (v *Vendor) ResetRating() {
	v.Rating = maxRating
	v.SuccessfulEvaluations = 0
	v.DisputedEvaluations = 0
}
