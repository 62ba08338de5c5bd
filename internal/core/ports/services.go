package ports

import (
	"ERecyclo/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VerificationResult is the outcome shown to the admin after an action.
type VerificationResult struct {
	Status  domain.VerificationStatus `json:"status"`
	Message string                    `json:"message"`
}

// RegistrationEvent is published when a vendor or collector signs up.
type RegistrationEvent struct {
	User      *domain.User
	Vendor    *domain.Vendor
	Collector *domain.Collector
}

// FlaggedEvent is published when a new fraud flag is raised.
type FlaggedEvent struct {
	Flag          *domain.FraudFlag
	ProductName   string
	VendorName    string
	AutoSuspended bool
}

// StatusChangedEvent is published after every verification action.
type StatusChangedEvent struct {
	EntityID uuid.UUID
	UserID   uuid.UUID
	AdminID  uuid.UUID
	Action   domain.VerificationAction
	From     domain.VerificationStatus
	To       domain.VerificationStatus
}

// VerificationService drives the vendor and collector state machines.
type VerificationService interface {
	ApplyVendorAction(ctx context.Context, adminID, vendorID uuid.UUID, action domain.VerificationAction) (VerificationResult, error)
	ApplyCollectorAction(ctx context.Context, adminID, collectorID uuid.UUID, action domain.VerificationAction, reason string) (VerificationResult, error)
	PendingVendors(ctx context.Context) ([]*domain.Vendor, error)
	PendingCollectors(ctx context.Context) ([]*domain.Collector, error)
	ResetVendorRating(ctx context.Context, vendorID uuid.UUID) (*domain.Vendor, error)
	SetForensicsScore(ctx context.Context, vendorID uuid.UUID, score decimal.Decimal) (*domain.Vendor, error)
	ResetCollectorStats(ctx context.Context, collectorID uuid.UUID) (*domain.Collector, error)
}

// ScoringService recomputes stored vendor trust scores on demand.
type ScoringService interface {
	// RecalculateTrustScores updates the given vendors, or all of them when
	// vendorIDs is empty, and returns how many were updated.
	RecalculateTrustScores(ctx context.Context, vendorIDs []uuid.UUID) (int, error)
}

// FraudService raises and resolves fraud flags.
type FraudService interface {
	RaiseFlag(ctx context.Context, product *domain.Product, risk decimal.Decimal, details domain.VarianceDetails) (*domain.FraudFlag, error)
	ResolveFlag(ctx context.Context, adminID, flagID uuid.UUID, decision domain.FraudDecision, notes string) (*domain.FraudFlag, error)
	OpenFlags(ctx context.Context) ([]*domain.FraudFlag, error)
}

// AssignmentService dispatches products to vendors and collectors.
type AssignmentService interface {
	EligibleCollectors(ctx context.Context) ([]*domain.Collector, error)
	EligibleVendors(ctx context.Context) ([]*domain.Vendor, error)
	AssignVendor(ctx context.Context, productID, vendorID uuid.UUID) (*domain.Product, error)
	AssignCollector(ctx context.Context, productID, collectorID uuid.UUID) (*domain.Product, error)
}

// UploadProductInput is what a seller submits.
type UploadProductInput struct {
	Name           string
	Description    string
	Category       string
	Image          string
	WeightApprox   decimal.Decimal
	EstimatedValue decimal.Decimal
}

// PickupInput is the seller's pickup request.
type PickupInput struct {
	LocationText string
	Latitude     *decimal.Decimal
	Longitude    *decimal.Decimal
	Notes        string
}

// EvaluationInput is the vendor's valuation of a delivered product.
type EvaluationInput struct {
	FinalValue decimal.Decimal
	Notes      string
}

// EvaluationResult tells the vendor whether the product was flagged.
type EvaluationResult struct {
	Product *domain.Product   `json:"product"`
	Flag    *domain.FraudFlag `json:"flag,omitempty"`
}

// ProductDetail is a product with its pickup request and timeline.
type ProductDetail struct {
	Product  *domain.Product        `json:"product"`
	Pickup   *domain.PickupRequest  `json:"pickup,omitempty"`
	Timeline []domain.TimelineEntry `json:"timeline"`
}

// ProductService covers the customer, collector and vendor pipeline.
type ProductService interface {
	Upload(ctx context.Context, sellerID uuid.UUID, in UploadProductInput) (*domain.Product, error)
	RequestPickup(ctx context.Context, sellerID, productID uuid.UUID, in PickupInput) (*domain.PickupRequest, error)
	ListMine(ctx context.Context, sellerID uuid.UUID) ([]*domain.Product, error)
	Cancel(ctx context.Context, sellerID, productID uuid.UUID) (*domain.Product, error)

	MarkPickedUp(ctx context.Context, collectorUserID, productID uuid.UUID) (*domain.Product, error)
	MarkDelivered(ctx context.Context, collectorUserID, productID uuid.UUID) (*domain.Product, error)
	ToggleAvailability(ctx context.Context, collectorUserID uuid.UUID, available bool) (*domain.Collector, error)

	ListAssigned(ctx context.Context, vendorUserID uuid.UUID) ([]*domain.Product, error)
	Evaluate(ctx context.Context, vendorUserID, productID uuid.UUID, in EvaluationInput) (EvaluationResult, error)

	Detail(ctx context.Context, viewer *domain.User, productID uuid.UUID) (*ProductDetail, error)
}

// RegisterInput is common to every registration form.
type RegisterInput struct {
	Email     string
	Phone     string
	Password  string
	FirstName string
	LastName  string
	Address   string
	City      string
	State     string
	Pincode   string
}

// VendorRegistration adds the company profile.
type VendorRegistration struct {
	RegisterInput
	CompanyName        string
	LicenseNumber      string
	LicenseDocument    string
	GSTNumber          string
	Specializations    []string
	ProcessingCapacity int
}

// CollectorRegistration adds the vehicle and licence documents.
type CollectorRegistration struct {
	RegisterInput
	VehicleType          string
	VehicleNumber        string
	DrivingLicenseNumber string
	ProfilePhoto         string
	DrivingLicenseFront  string
	DrivingLicenseBack   string
	VehicleRegistration  string
	ServiceArea          string
}

// Session is returned after a successful login.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// AuthService registers and authenticates accounts.
type AuthService interface {
	RegisterCustomer(ctx context.Context, in RegisterInput) (*domain.User, error)
	RegisterVendor(ctx context.Context, in VendorRegistration) (*domain.User, *domain.Vendor, error)
	RegisterCollector(ctx context.Context, in CollectorRegistration) (*domain.User, *domain.Collector, error)

	// Login only succeeds when the account's role matches the portal.
	Login(ctx context.Context, portal domain.Role, email, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)

	RequestEmailOTP(ctx context.Context, userID uuid.UUID) error
	VerifyEmailOTP(ctx context.Context, userID uuid.UUID, code string) error
}

// AdminDashboard summarises the moderation queue.
type AdminDashboard struct {
	SiteHeader     string              `json:"site_header"`
	SiteTitle      string              `json:"site_title"`
	PendingVendors int                 `json:"pending_vendors"`
	OpenFlags      int                 `json:"open_flags"`
	TotalProducts  int                 `json:"total_products"`
	RecentFlags    []*domain.FraudFlag `json:"recent_flags"`
}

// VendorDashboard is the vendor's work overview.
type VendorDashboard struct {
	Vendor             *domain.Vendor    `json:"vendor"`
	PendingEvaluations []*domain.Product `json:"pending_evaluations"`
	IncomingPickups    []*domain.Product `json:"incoming_pickups"`
	WorkloadPercentage decimal.Decimal   `json:"workload_percentage"`
}

// CollectorDashboard is the collector's duty overview.
type CollectorDashboard struct {
	Collector       *domain.Collector `json:"collector"`
	ActivePickups   []*domain.Product `json:"active_pickups"`
	DeliveriesToday int               `json:"deliveries_today"`
}

// CustomerDashboard is the seller's upload overview.
type CustomerDashboard struct {
	TotalUploads      int               `json:"total_uploads"`
	PendingPickups    int               `json:"pending_pickups"`
	CompletedPickups  int               `json:"completed_pickups"`
	RecentProducts    []*domain.Product `json:"recent_products"`
	ProfileCompletion int               `json:"profile_completion"`
}

// DashboardService builds the per-role overview pages.
type DashboardService interface {
	Customer(ctx context.Context, seller *domain.User) (*CustomerDashboard, error)
	Admin(ctx context.Context) (*AdminDashboard, error)
	Vendor(ctx context.Context, vendorUserID uuid.UUID) (*VendorDashboard, error)
	Collector(ctx context.Context, collectorUserID uuid.UUID) (*CollectorDashboard, error)
}
