package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is fixed when the account is created.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleVendor    Role = "vendor"
	RoleCollector Role = "collector"
	RoleAdmin     Role = "admin"
)

// ParseRole converts user input into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleCustomer, RoleVendor, RoleCollector, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
	}
}

// Capability is a single permission checked at the routing boundary.
type Capability string

const (
	CapUploadProduct     Capability = "product:upload"
	CapManageOwnProducts Capability = "product:manage_own"
	CapViewProduct       Capability = "product:view"
	CapVerifyEmail       Capability = "account:verify_email"
	CapVendorWork        Capability = "vendor:work"
	CapCollectorWork     Capability = "collector:work"
	CapAdminDashboard    Capability = "admin:dashboard"
	CapVerifyVendors     Capability = "admin:verify_vendors"
	CapVerifyCollectors  Capability = "admin:verify_collectors"
	CapRecalculateScores Capability = "admin:recalculate_scores"
	CapAssignWork        Capability = "admin:assign"
	CapResolveFraud      Capability = "admin:resolve_fraud"
)

var capabilities = map[Role]map[Capability]bool{
	RoleCustomer: {
		CapUploadProduct:     true,
		CapManageOwnProducts: true,
		CapViewProduct:       true,
		CapVerifyEmail:       true,
	},
	RoleVendor: {
		CapVendorWork:  true,
		CapViewProduct: true,
		CapVerifyEmail: true,
	},
	RoleCollector: {
		CapCollectorWork: true,
		CapViewProduct:   true,
		CapVerifyEmail:   true,
	},
	RoleAdmin: {
		CapViewProduct:       true,
		CapVerifyEmail:       true,
		CapAdminDashboard:    true,
		CapVerifyVendors:     true,
		CapVerifyCollectors:  true,
		CapRecalculateScores: true,
		CapAssignWork:        true,
		CapResolveFraud:      true,
	},
}

// Can reports whether the role holds the capability.
func (r Role) Can(c Capability) bool {
	return capabilities[r][c]
}

var (
	phoneRegex   = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodeRegex = regexp.MustCompile(`^\d{6}$`)
	emailRegex   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// User is the root identity every profile refers back to.
type User struct {
	ID              uuid.UUID       `json:"id"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	PasswordHash    string          `json:"-"`
	Role            Role            `json:"role"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Address         string          `json:"address"`
	City            string          `json:"city"`
	State           string          `json:"state"`
	Pincode         string          `json:"pincode"`
	WalletBalance   decimal.Decimal `json:"wallet_balance"`
	LoyaltyPoints   int             `json:"loyalty_points"`
	IsActive        bool            `json:"is_active"`
	IsEmailVerified bool            `json:"is_email_verified"`
	TelegramID      *int64          `json:"-"` // Nullable, moderators only
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProfileCompletion is the share of optional profile fields filled in, as a
// whole percentage.
func (u *User) ProfileCompletion() int {
	fields := []string{u.FirstName, u.LastName, u.Phone, u.Address, u.City, u.Pincode}
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	return filled * 100 / len(fields)
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Validate checks the registration invariants of a user record.
func (u *User) Validate() error {
	if !emailRegex.MatchString(u.Email) {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if !phoneRegex.MatchString(u.Phone) {
		return fmt.Errorf("%w: enter a valid 10-digit mobile number starting with 6-9", ErrInvalidInput)
	}
	if u.Pincode != "" && !pincodeRegex.MatchString(u.Pincode) {
		return fmt.Errorf("%w: pincode must be 6 digits", ErrInvalidInput)
	}
	if strings.TrimSpace(u.FirstName) == "" || strings.TrimSpace(u.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	if u.WalletBalance.IsNegative() || u.LoyaltyPoints < 0 {
		return fmt.Errorf("%w: balances cannot be negative", ErrInvalidInput)
	}
	return nil
}
