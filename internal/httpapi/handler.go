package httpapi

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// Services are the use cases the API exposes.
type Services struct {
	Auth         ports.AuthService
	Products     ports.ProductService
	Verification ports.VerificationService
	Scoring      ports.ScoringService
	Fraud        ports.FraudService
	Assignment   ports.AssignmentService
	Dashboards   ports.DashboardService
}

// Handler holds the HTTP endpoints. Every method assumes the router has
// already run Authenticate and Require where the route needs them.
type Handler struct {
	svc Services
	log zerolog.Logger
}

func NewHandler(svc Services, baseLogger *zerolog.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: baseLogger.With().Str("component", "http_handler").Logger(),
	}
}

// currentUser is only nil when a route was mounted without Authenticate.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	u, ok := UserFrom(r.Context())
	if !ok {
		Error(w, r, fmt.Errorf("%w: not signed in", domain.ErrUnauthorized))
		return nil, false
	}
	return u, true
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "up"})
}
