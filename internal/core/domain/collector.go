package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxConcurrentPickups is the default per-collector pickup limit.
const MaxConcurrentPickups = 3

// VehicleType of a collector.
type VehicleType string

const (
	VehicleBicycle VehicleType = "bicycle"
	VehicleBike    VehicleType = "bike"
	VehicleVan     VehicleType = "van"
)

// ParseVehicleType validates a vehicle type.
func ParseVehicleType(s string) (VehicleType, error) {
	switch v := VehicleType(s); v {
	case VehicleBicycle, VehicleBike, VehicleVan:
		return v, nil
	case "":
		return VehicleBike, nil
	default:
		return "", fmt.Errorf("%w: unknown vehicle type %q", ErrInvalidInput, s)
	}
}

// RequiresPlates reports whether the vehicle must carry a registration number.
func (v VehicleType) RequiresPlates() bool {
	return v == VehicleBike || v == VehicleVan
}

// Collector performs pickups between sellers and vendors.
type Collector struct {
	ID                    uuid.UUID          `json:"id"`
	UserID                uuid.UUID          `json:"user_id"`
	VerificationStatus    VerificationStatus `json:"verification_status"`
	IsVerified            bool               `json:"is_verified"`
	VerifiedBy            *uuid.UUID         `json:"verified_by"`
	VerifiedAt            *time.Time         `json:"verified_at"`
	ProfilePhoto          string             `json:"profile_photo"`
	DrivingLicenseFront   string             `json:"driving_license_front"`
	DrivingLicenseBack    string             `json:"driving_license_back"`
	VehicleRegistration   string             `json:"vehicle_registration"`
	PoliceVerificationDoc string             `json:"police_verification_doc"`
	VehicleType           VehicleType        `json:"vehicle_type"`
	VehicleNumber         string             `json:"vehicle_number"`
	DrivingLicenseNumber  string             `json:"driving_license_number"` // Encrypted at rest
	IsAvailable           bool               `json:"is_available"`
	CurrentPickups        int                `json:"current_pickups"`
	TotalDeliveries       int                `json:"total_deliveries"`
	Rating                decimal.Decimal    `json:"rating"`
	IsBlacklisted         bool               `json:"is_blacklisted"`
	BlacklistReason       string             `json:"blacklist_reason"`
	ServiceArea           string             `json:"service_area"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

// NewCollector builds a collector profile in its registration state. It is
// unavailable until an admin approves it.
func NewCollector(userID uuid.UUID, vehicle VehicleType) *Collector {
	return &Collector{
		ID:                 uuid.New(),
		UserID:             userID,
		VerificationStatus: StatusPending,
		VehicleType:        vehicle,
		Rating:             maxRating,
	}
}

// IsDocumentationComplete requires the photo, both licence images, the
// licence number, and a plate number for motorised vehicles.
func (c *Collector) IsDocumentationComplete() bool {
	if c.ProfilePhoto == "" || c.DrivingLicenseFront == "" || c.DrivingLicenseBack == "" {
		return false
	}
	if c.DrivingLicenseNumber == "" {
		return false
	}
	if c.VehicleType.RequiresPlates() && c.VehicleNumber == "" {
		return false
	}
	return true
}

// MissingDocuments lists what blocks approval, in display order.
func (c *Collector) MissingDocuments() []string {
	var missing []string
	if c.ProfilePhoto == "" {
		missing = append(missing, "profile_photo")
	}
	if c.DrivingLicenseFront == "" {
		missing = append(missing, "driving_license_front")
	}
	if c.DrivingLicenseBack == "" {
		missing = append(missing, "driving_license_back")
	}
	if c.DrivingLicenseNumber == "" {
		missing = append(missing, "driving_license_number")
	}
	if c.VehicleType.RequiresPlates() && c.VehicleNumber == "" {
		missing = append(missing, "vehicle_number")
	}
	return missing
}

// CanAcceptMore is true while the collector is under the pickup limit.
func (c *Collector) CanAcceptMore(limit int) bool {
	return c.CurrentPickups < limit
}

// IsEligible is the assignment gate: verified, available and under capacity.
func (c *Collector) IsEligible(limit int) bool {
	return c.IsVerified && c.IsAvailable && c.CanAcceptMore(limit)
}

// Apply runs an admin action through the collector transition table. An
// approve on incomplete documentation lands in documents_pending instead;
// the returned status is the one actually reached.
func (c *Collector) Apply(action VerificationAction, adminID uuid.UUID, reason string, now time.Time) (VerificationStatus, error) {
	next, err := NextCollectorStatus(c.VerificationStatus, action)
	if err != nil {
		return "", err
	}

	switch action {
	case ActionApprove:
		if !c.IsDocumentationComplete() {
			if c.VerificationStatus == StatusDocumentsPending {
				return StatusDocumentsPending, nil
			}
			next = StatusDocumentsPending
			break
		}
		c.IsVerified = true
		c.IsAvailable = true
		c.VerifiedBy = &adminID
		c.VerifiedAt = &now
	case ActionReject:
		c.IsVerified = false
		c.IsAvailable = false
	case ActionSuspend:
		c.IsAvailable = false
	case ActionUnsuspend:
		c.IsAvailable = true
	case ActionBlacklist:
		c.IsAvailable = false
		c.IsBlacklisted = true
		c.BlacklistReason = reason
	}
	c.VerificationStatus = next
	return next, nil
}

// SetAvailability lets a collector go on or off duty. Unverified or
// blacklisted collectors stay unavailable.
func (c *Collector) SetAvailability(available bool) error {
	if available && (!c.IsVerified || c.IsBlacklisted || c.VerificationStatus != StatusApproved) {
		return fmt.Errorf("%w: collector must be approved before going available", ErrInvalidTransition)
	}
	c.IsAvailable = available
	return nil
}

// ResetStats restores the default rating and clears the delivery counter.
func (c *Collector) ResetStats() {
	c.Rating = maxRating
	c.TotalDeliveries = 0
}
