package services

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	minPasswordLength  = 8
	defaultCapacity    = 100
	otpDigits          = 6
	otpNotifySubject   = "E-RECYCLO email verification"
	invalidCredentials = "invalid email or password"
)

// AuthService registers accounts and issues access tokens.
type AuthService struct {
	tx         ports.Transactor
	users      ports.UserRepository
	vendors    ports.VendorRepository
	collectors ports.CollectorRepository
	hasher     ports.PasswordHasher
	tokens     ports.TokenIssuer
	otps       ports.OTPStore
	notifier   ports.Notifier
	bus        ports.EventBus
	otpTTL     time.Duration
	log        zerolog.Logger
	nowFn      func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

// AuthDeps groups the collaborators of the auth service.
type AuthDeps struct {
	Tx         ports.Transactor
	Users      ports.UserRepository
	Vendors    ports.VendorRepository
	Collectors ports.CollectorRepository
	Hasher     ports.PasswordHasher
	Tokens     ports.TokenIssuer
	OTPs       ports.OTPStore
	Notifier   ports.Notifier
	Bus        ports.EventBus
}

func NewAuthService(deps AuthDeps, otpTTL time.Duration, baseLogger *zerolog.Logger) *AuthService {
	return &AuthService{
		tx:         deps.Tx,
		users:      deps.Users,
		vendors:    deps.Vendors,
		collectors: deps.Collectors,
		hasher:     deps.Hasher,
		tokens:     deps.Tokens,
		otps:       deps.OTPs,
		notifier:   deps.Notifier,
		bus:        deps.Bus,
		otpTTL:     otpTTL,
		log:        baseLogger.With().Str("component", "auth_service").Logger(),
		nowFn:      time.Now,
	}
}

func (s *AuthService) newUser(in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}
	now := s.nowFn()
	u := &domain.User{
		ID:            uuid.New(),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:         strings.TrimSpace(in.Phone),
		Role:          role,
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		Address:       in.Address,
		City:          in.City,
		State:         in.State,
		Pincode:       strings.TrimSpace(in.Pincode),
		WalletBalance: decimal.Zero,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	return u, nil
}

// RegisterCustomer creates a seller account.
func (s *AuthService) RegisterCustomer(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	u, err := s.newUser(in, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("register customer: %w", err)
	}
	s.log.Info().Str("user_id", u.ID.String()).Msg("Customer registered")
	return u, nil
}

// RegisterVendor creates the account and a pending vendor profile.
func (s *AuthService) RegisterVendor(ctx context.Context, in ports.VendorRegistration) (*domain.User, *domain.Vendor, error) {
	u, err := s.newUser(in.RegisterInput, domain.RoleVendor)
	if err != nil {
		return nil, nil, err
	}
	gst, err := domain.NormalizeGSTIN(in.GSTNumber)
	if err != nil {
		return nil, nil, err
	}
	capacity := in.ProcessingCapacity
	if capacity == 0 {
		capacity = defaultCapacity
	}
	v, err := domain.NewVendor(u.ID, strings.TrimSpace(in.CompanyName), strings.TrimSpace(in.LicenseNumber), in.LicenseDocument, capacity)
	if err != nil {
		return nil, nil, err
	}
	if gst != "" {
		v.GSTNumber = &gst
	}
	v.Specializations = in.Specializations
	v.CreatedAt, v.UpdatedAt = u.CreatedAt, u.CreatedAt

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		return s.vendors.Create(ctx, v)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("register vendor: %w", err)
	}

	s.log.Info().Str("user_id", u.ID.String()).Str("vendor_id", v.ID.String()).Msg("Vendor registration submitted")
	publish(ctx, s.bus, &s.log, ports.TopicVendorRegistered, ports.RegistrationEvent{User: u, Vendor: v})
	return u, v, nil
}

// RegisterCollector creates the account and a pending, unavailable
// collector profile.
func (s *AuthService) RegisterCollector(ctx context.Context, in ports.CollectorRegistration) (*domain.User, *domain.Collector, error) {
	u, err := s.newUser(in.RegisterInput, domain.RoleCollector)
	if err != nil {
		return nil, nil, err
	}
	vehicle, err := domain.ParseVehicleType(in.VehicleType)
	if err != nil {
		return nil, nil, err
	}
	plate, err := domain.NormalizeVehicleNumber(in.VehicleNumber)
	if err != nil {
		return nil, nil, err
	}
	licence, err := domain.NormalizeDrivingLicense(in.DrivingLicenseNumber)
	if err != nil {
		return nil, nil, err
	}

	c := domain.NewCollector(u.ID, vehicle)
	c.VehicleNumber = plate
	c.DrivingLicenseNumber = licence
	c.ProfilePhoto = in.ProfilePhoto
	c.DrivingLicenseFront = in.DrivingLicenseFront
	c.DrivingLicenseBack = in.DrivingLicenseBack
	c.VehicleRegistration = in.VehicleRegistration
	c.ServiceArea = in.ServiceArea
	c.CreatedAt, c.UpdatedAt = u.CreatedAt, u.CreatedAt

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		return s.collectors.Create(ctx, c)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("register collector: %w", err)
	}

	s.log.Info().Str("user_id", u.ID.String()).Str("collector_id", c.ID.String()).Msg("Collector registration submitted")
	publish(ctx, s.bus, &s.log, ports.TopicCollectorRegistered, ports.RegistrationEvent{User: u, Collector: c})
	return u, c, nil
}

// Login checks the password and that the account belongs to the portal.
func (s *AuthService) Login(ctx context.Context, portal domain.Role, email, password string) (*ports.Session, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, invalidCredentials)
		}
		return nil, err
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, invalidCredentials)
	}
	if !u.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", domain.ErrForbidden)
	}
	if u.Role != portal {
		s.log.Warn().Str("user_id", u.ID.String()).Str("portal", string(portal)).Msg("Login on wrong portal")
		return nil, fmt.Errorf("%w: this login is only for %ss", domain.ErrForbidden, portal)
	}

	token, expiresAt, err := s.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.log.Info().Str("user_id", u.ID.String()).Str("role", string(u.Role)).Msg("User logged in")
	return &ports.Session{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if !u.IsActive || u.Role != claims.Role {
		return nil, fmt.Errorf("%w: token no longer valid", domain.ErrUnauthorized)
	}
	return u, nil
}

// RequestEmailOTP stores a fresh 6-digit code and sends it to the user.
func (s *AuthService) RequestEmailOTP(ctx context.Context, userID uuid.UUID) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.IsEmailVerified {
		return fmt.Errorf("%w: email already verified", domain.ErrInvalidTransition)
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	if err := s.otps.Save(ctx, userID, code, s.otpTTL); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(s.otpTTL.Minutes()))
	if err := s.notifier.Notify(ctx, u, otpNotifySubject, body); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	s.log.Info().Str("user_id", userID.String()).Msg("Email OTP issued")
	return nil
}

// VerifyEmailOTP consumes the stored code and marks the email verified.
func (s *AuthService) VerifyEmailOTP(ctx context.Context, userID uuid.UUID, code string) error {
	stored, err := s.otps.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired OTP", domain.ErrUnauthorized)
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) != 1 {
		return fmt.Errorf("%w: invalid or expired OTP", domain.ErrUnauthorized)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.IsEmailVerified = true
	u.UpdatedAt = s.nowFn()
	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	if err := s.otps.Delete(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to delete used OTP")
	}
	s.log.Info().Str("user_id", userID.String()).Msg("Email verified")
	return nil
}

func generateOTP() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
