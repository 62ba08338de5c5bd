package httpapi

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	handler      http.Handler
	auth         *MockAuthService
	products     *MockProductService
	verification *MockVerificationService
	scoring      *MockScoringService
	fraud        *MockFraudService
	assignment   *MockAssignmentService
	dashboards   *MockDashboardService

	admin     *domain.User
	customer  *domain.User
	vendor    *domain.User
	collector *domain.User
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	nop := zerolog.Nop()
	api := &testAPI{
		auth:         new(MockAuthService),
		products:     new(MockProductService),
		verification: new(MockVerificationService),
		scoring:      new(MockScoringService),
		fraud:        new(MockFraudService),
		assignment:   new(MockAssignmentService),
		dashboards:   new(MockDashboardService),
		admin:        &domain.User{ID: uuid.New(), Role: domain.RoleAdmin, IsActive: true},
		customer:     &domain.User{ID: uuid.New(), Role: domain.RoleCustomer, IsActive: true, Email: "c@example.com"},
		vendor:       &domain.User{ID: uuid.New(), Role: domain.RoleVendor, IsActive: true},
		collector:    &domain.User{ID: uuid.New(), Role: domain.RoleCollector, IsActive: true},
	}
	api.auth.On("Authenticate", mock.Anything, "admin-token").Return(api.admin, nil).Maybe()
	api.auth.On("Authenticate", mock.Anything, "customer-token").Return(api.customer, nil).Maybe()
	api.auth.On("Authenticate", mock.Anything, "vendor-token").Return(api.vendor, nil).Maybe()
	api.auth.On("Authenticate", mock.Anything, "collector-token").Return(api.collector, nil).Maybe()
	api.auth.On("Authenticate", mock.Anything, "expired").Return(nil, fmt.Errorf("token: %w", domain.ErrUnauthorized)).Maybe()

	h := NewHandler(Services{
		Auth:         api.auth,
		Products:     api.products,
		Verification: api.verification,
		Scoring:      api.scoring,
		Fraud:        api.fraud,
		Assignment:   api.assignment,
		Dashboards:   api.dashboards,
	}, &nop)
	api.handler = NewRouter(h, api.auth, nil, &nop)
	return api
}

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (api *testAPI) do(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	status, env := api.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", env.Code)
}

func TestAuthMiddleware(t *testing.T) {
	api := newTestAPI(t)

	status, env := api.do(t, http.MethodGet, "/products/mine", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", env.Code)

	status, env = api.do(t, http.MethodGet, "/products/mine", "expired", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", env.Code)
}

func TestCapabilityMiddleware(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{"customer on admin dashboard", http.MethodGet, "/admin/dashboard", "customer-token"},
		{"vendor on collector routes", http.MethodGet, "/collector/dashboard", "vendor-token"},
		{"collector uploading", http.MethodPost, "/products", "collector-token"},
		{"admin evaluating", http.MethodPost, "/vendor/products/" + uuid.NewString() + "/evaluate", "admin-token"},
		{"vendor resolving fraud", http.MethodGet, "/admin/fraud-flags", "vendor-token"},
		{"vendor on customer dashboard", http.MethodGet, "/dashboard", "vendor-token"},
		{"customer listing eligible vendors", http.MethodGet, "/admin/vendors/eligible", "customer-token"},
		{"collector setting forensics", http.MethodPost, "/admin/vendors/" + uuid.NewString() + "/forensics-score", "collector-token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := api.do(t, tc.method, tc.path, tc.token, `{}`)
			assert.Equal(t, http.StatusForbidden, status)
			assert.Equal(t, "forbidden", env.Code)
		})
	}
}

func TestRegisterVendor(t *testing.T) {
	api := newTestAPI(t)

	user := &domain.User{ID: uuid.New(), Role: domain.RoleVendor}
	vendor := &domain.Vendor{ID: uuid.New(), CompanyName: "GreenTech"}
	api.auth.On("RegisterVendor", mock.Anything, mock.MatchedBy(func(in ports.VendorRegistration) bool {
		return in.Email == "v@example.com" && in.CompanyName == "GreenTech" &&
			in.ProcessingCapacity == 40 && in.FirstName == "Ravi"
	})).Return(user, vendor, nil).Once()

	body := `{"email":"v@example.com","password":"secret123","first_name":"Ravi",
		"company_name":"GreenTech","license_number":"L-1","license_document":"doc.pdf",
		"processing_capacity":40}`
	status, env := api.do(t, http.MethodPost, "/auth/register/vendor", "", body)
	assert.Equal(t, http.StatusCreated, status)
	assert.Contains(t, string(env.Data), "GreenTech")
	api.auth.AssertExpectations(t)
}

func TestRegisterRejectsAdminAndUnknownRoles(t *testing.T) {
	api := newTestAPI(t)

	status, env := api.do(t, http.MethodPost, "/auth/register/admin", "", `{}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", env.Code)

	status, env = api.do(t, http.MethodPost, "/auth/register/pirate", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", env.Code)
}

func TestRegisterUnknownField(t *testing.T) {
	api := newTestAPI(t)
	status, env := api.do(t, http.MethodPost, "/auth/register/customer", "", `{"emial":"x"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", env.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	api := newTestAPI(t)
	api.auth.On("RegisterCustomer", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("create user: %w", domain.ErrAlreadyExists)).Once()

	status, env := api.do(t, http.MethodPost, "/auth/register/customer", "", `{"email":"c@example.com"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_exists", env.Code)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)
	api.auth.On("Login", mock.Anything, domain.RoleAdmin, "a@example.com", "pw").
		Return(&ports.Session{Token: "jwt", User: api.admin}, nil).Once()

	status, env := api.do(t, http.MethodPost, "/auth/login/admin", "", `{"email":"a@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"token":"jwt"`)
}

func TestOTPRoutes(t *testing.T) {
	api := newTestAPI(t)
	api.auth.On("RequestEmailOTP", mock.Anything, api.customer.ID).Return(nil).Once()
	api.auth.On("VerifyEmailOTP", mock.Anything, api.customer.ID, "123456").Return(nil).Once()

	status, _ := api.do(t, http.MethodPost, "/auth/otp/request", "customer-token", "")
	assert.Equal(t, http.StatusAccepted, status)

	status, env := api.do(t, http.MethodPost, "/auth/otp/verify", "customer-token", `{"code":"123456"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"email_verified":true}`, string(env.Data))
	api.auth.AssertExpectations(t)
}

func TestUploadProduct(t *testing.T) {
	api := newTestAPI(t)
	api.products.On("Upload", mock.Anything, api.customer.ID, mock.MatchedBy(func(in ports.UploadProductInput) bool {
		return in.Name == "Old TV" && in.EstimatedValue.Equal(decimal.NewFromInt(1200))
	})).Return(&domain.Product{ID: uuid.New(), Name: "Old TV"}, nil).Once()

	status, _ := api.do(t, http.MethodPost, "/products", "customer-token",
		`{"name":"Old TV","category":"tv","weight_approx":"7.5","estimated_value":1200}`)
	assert.Equal(t, http.StatusCreated, status)
	api.products.AssertExpectations(t)
}

func TestProductDetailErrors(t *testing.T) {
	api := newTestAPI(t)

	status, env := api.do(t, http.MethodGet, "/products/not-a-uuid", "vendor-token", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", env.Code)

	id := uuid.New()
	api.products.On("Detail", mock.Anything, api.vendor, id).
		Return(nil, fmt.Errorf("product %s: %w", id, domain.ErrForbidden)).Once()
	status, env = api.do(t, http.MethodGet, "/products/"+id.String(), "vendor-token", "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", env.Code)
}

func TestEvaluate(t *testing.T) {
	api := newTestAPI(t)
	productID := uuid.New()
	flag := &domain.FraudFlag{ID: uuid.New()}
	api.products.On("Evaluate", mock.Anything, api.vendor.ID, productID, mock.MatchedBy(func(in ports.EvaluationInput) bool {
		return in.FinalValue.Equal(decimal.RequireFromString("450.50"))
	})).Return(ports.EvaluationResult{Product: &domain.Product{ID: productID}, Flag: flag}, nil).Once()

	status, env := api.do(t, http.MethodPost, "/vendor/products/"+productID.String()+"/evaluate", "vendor-token",
		`{"final_value":"450.50","notes":"screen cracked"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), flag.ID.String())
}

func TestCollectorAvailability(t *testing.T) {
	api := newTestAPI(t)

	status, env := api.do(t, http.MethodPost, "/collector/availability", "collector-token", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", env.Code)

	api.products.On("ToggleAvailability", mock.Anything, api.collector.ID, false).
		Return(&domain.Collector{ID: uuid.New()}, nil).Once()
	status, _ = api.do(t, http.MethodPost, "/collector/availability", "collector-token", `{"available":false}`)
	assert.Equal(t, http.StatusOK, status)
	api.products.AssertExpectations(t)
}

func TestCollectorSteps(t *testing.T) {
	api := newTestAPI(t)
	productID := uuid.New()
	api.products.On("MarkPickedUp", mock.Anything, api.collector.ID, productID).
		Return(&domain.Product{ID: productID, Status: domain.ProductPickedUp}, nil).Once()
	api.products.On("MarkDelivered", mock.Anything, api.collector.ID, productID).
		Return(nil, fmt.Errorf("product: %w", domain.ErrInvalidTransition)).Once()

	status, _ := api.do(t, http.MethodPost, "/collector/products/"+productID.String()+"/picked-up", "collector-token", "")
	assert.Equal(t, http.StatusOK, status)

	status, env := api.do(t, http.MethodPost, "/collector/products/"+productID.String()+"/delivered", "collector-token", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "invalid_transition", env.Code)
}

func TestVendorAction(t *testing.T) {
	api := newTestAPI(t)
	vendorID := uuid.New()
	api.verification.On("ApplyVendorAction", mock.Anything, api.admin.ID, vendorID, domain.ActionApprove).
		Return(ports.VerificationResult{Status: domain.StatusApproved, Message: "approved"}, nil).Once()
	api.verification.On("ApplyVendorAction", mock.Anything, api.admin.ID, vendorID, domain.ActionUnsuspend).
		Return(ports.VerificationResult{}, fmt.Errorf("vendor: %w", domain.ErrInvalidTransition)).Once()

	path := "/admin/vendors/" + vendorID.String() + "/actions"
	status, env := api.do(t, http.MethodPost, path, "admin-token", `{"action":"approve"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"status":"approved"`)

	status, env = api.do(t, http.MethodPost, path, "admin-token", `{"action":"unsuspend"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "invalid_transition", env.Code)

	status, env = api.do(t, http.MethodPost, path, "admin-token", `{"action":"promote"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", env.Code)
	api.verification.AssertExpectations(t)
}

func TestSetForensicsScore(t *testing.T) {
	api := newTestAPI(t)
	vendorID := uuid.New()
	api.verification.On("SetForensicsScore", mock.Anything, vendorID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("72.5"))
	})).Return(&domain.Vendor{ID: vendorID, ForensicsScore: decimal.RequireFromString("72.5")}, nil).Once()
	api.verification.On("SetForensicsScore", mock.Anything, vendorID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.NewFromInt(120))
	})).Return(nil, fmt.Errorf("forensics: %w", domain.ErrInvalidInput)).Once()

	path := "/admin/vendors/" + vendorID.String() + "/forensics-score"
	status, env := api.do(t, http.MethodPost, path, "admin-token", `{"score":72.5}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"forensics_score":"72.5"`)

	status, env = api.do(t, http.MethodPost, path, "admin-token", `{"score":120}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", env.Code)

	status, env = api.do(t, http.MethodPost, path, "admin-token", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", env.Code)
	api.verification.AssertExpectations(t)
}

func TestEligibleVendors(t *testing.T) {
	api := newTestAPI(t)
	vendor := &domain.Vendor{ID: uuid.New(), CompanyName: "GreenCycle"}
	api.assignment.On("EligibleVendors", mock.Anything).Return([]*domain.Vendor{vendor}, nil).Once()

	status, env := api.do(t, http.MethodGet, "/admin/vendors/eligible", "admin-token", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), vendor.ID.String())
	api.assignment.AssertExpectations(t)
}

func TestCustomerDashboard(t *testing.T) {
	api := newTestAPI(t)
	api.dashboards.On("Customer", mock.Anything, api.customer).
		Return(&ports.CustomerDashboard{TotalUploads: 3, PendingPickups: 1, ProfileCompletion: 50}, nil).Once()

	status, env := api.do(t, http.MethodGet, "/dashboard", "customer-token", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"total_uploads":3`)
	assert.Contains(t, string(env.Data), `"profile_completion":50`)
	api.dashboards.AssertExpectations(t)
}

func TestCollectorActionPassesReason(t *testing.T) {
	api := newTestAPI(t)
	collectorID := uuid.New()
	api.verification.On("ApplyCollectorAction", mock.Anything, api.admin.ID, collectorID, domain.ActionBlacklist, "fake documents").
		Return(ports.VerificationResult{Status: domain.StatusBlacklisted}, nil).Once()

	status, _ := api.do(t, http.MethodPost, "/admin/collectors/"+collectorID.String()+"/actions", "admin-token",
		`{"action":"blacklist","reason":"fake documents"}`)
	assert.Equal(t, http.StatusOK, status)
	api.verification.AssertExpectations(t)
}

func TestRecalculateTrustScores(t *testing.T) {
	api := newTestAPI(t)
	id := uuid.New()
	api.scoring.On("RecalculateTrustScores", mock.Anything, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 0
	})).Return(7, nil).Once()
	api.scoring.On("RecalculateTrustScores", mock.Anything, []uuid.UUID{id}).Return(1, nil).Once()

	status, env := api.do(t, http.MethodPost, "/admin/vendors/trust-scores", "admin-token", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"updated":7}`, string(env.Data))

	status, env = api.do(t, http.MethodPost, "/admin/vendors/trust-scores", "admin-token", `{"vendor_ids":["`+id.String()+`"]}`)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"updated":1}`, string(env.Data))
	api.scoring.AssertExpectations(t)
}

func TestAssignCollectorConflict(t *testing.T) {
	api := newTestAPI(t)
	productID, collectorID := uuid.New(), uuid.New()
	api.assignment.On("AssignCollector", mock.Anything, productID, collectorID).
		Return(nil, fmt.Errorf("collector: %w", domain.ErrConflict)).Once()

	status, env := api.do(t, http.MethodPost, "/admin/products/"+productID.String()+"/assign-collector", "admin-token",
		`{"collector_id":"`+collectorID.String()+`"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", env.Code)

	status, env = api.do(t, http.MethodPost, "/admin/products/"+productID.String()+"/assign-vendor", "admin-token", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", env.Code)
}

func TestResolveFlag(t *testing.T) {
	api := newTestAPI(t)
	flagID := uuid.New()
	api.fraud.On("ResolveFlag", mock.Anything, api.admin.ID, flagID, domain.DecisionVendorCorrect, "checked").
		Return(nil, fmt.Errorf("flag: %w", domain.ErrAlreadyReviewed)).Once()

	status, env := api.do(t, http.MethodPost, "/admin/fraud-flags/"+flagID.String()+"/resolve", "admin-token",
		`{"decision":"vendor_correct","notes":"checked"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_reviewed", env.Code)
}

func TestInternalErrorHidesDetails(t *testing.T) {
	api := newTestAPI(t)
	api.dashboards.On("Admin", mock.Anything).Return(nil, errors.New("pq: connection refused")).Once()

	status, env := api.do(t, http.MethodGet, "/admin/dashboard", "admin-token", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal", env.Code)
	assert.Equal(t, "internal error", env.Message)
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)
	status, env := api.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", env.Code)
}
