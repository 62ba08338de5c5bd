package httpapi

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter mounts every route. Role checks go through capabilities, never
// through role names.
func NewRouter(h *Handler, auth ports.AuthService, allowedOrigins []string, baseLogger *zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(baseLogger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register/{role}", h.Register)
		r.Post("/login/{role}", h.Login)
		r.Group(func(r chi.Router) {
			r.Use(Authenticate(auth))
			r.Use(Require(domain.CapVerifyEmail))
			r.Post("/otp/request", h.RequestOTP)
			r.Post("/otp/verify", h.VerifyOTP)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(auth))

		r.With(Require(domain.CapManageOwnProducts)).Get("/dashboard", h.CustomerDashboard)

		r.Route("/products", func(r chi.Router) {
			r.With(Require(domain.CapUploadProduct)).Post("/", h.UploadProduct)
			r.With(Require(domain.CapManageOwnProducts)).Get("/mine", h.MyProducts)
			r.With(Require(domain.CapManageOwnProducts)).Post("/{id}/pickup", h.RequestPickup)
			r.With(Require(domain.CapManageOwnProducts)).Post("/{id}/cancel", h.CancelProduct)
			r.With(Require(domain.CapViewProduct)).Get("/{id}", h.ProductDetail)
		})

		r.Route("/vendor", func(r chi.Router) {
			r.Use(Require(domain.CapVendorWork))
			r.Get("/dashboard", h.VendorDashboard)
			r.Get("/products", h.VendorProducts)
			r.Post("/products/{id}/evaluate", h.Evaluate)
		})

		r.Route("/collector", func(r chi.Router) {
			r.Use(Require(domain.CapCollectorWork))
			r.Get("/dashboard", h.CollectorDashboard)
			r.Post("/availability", h.SetAvailability)
			r.Post("/products/{id}/picked-up", h.PickedUp)
			r.Post("/products/{id}/delivered", h.Delivered)
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(Require(domain.CapAdminDashboard)).Get("/dashboard", h.AdminDashboard)

			r.Group(func(r chi.Router) {
				r.Use(Require(domain.CapVerifyVendors))
				r.Get("/vendors/pending", h.PendingVendors)
				r.Post("/vendors/{id}/actions", h.VendorAction)
				r.Post("/vendors/{id}/reset-rating", h.ResetVendorRating)
				r.Post("/vendors/{id}/forensics-score", h.SetForensicsScore)
			})
			r.With(Require(domain.CapRecalculateScores)).Post("/vendors/trust-scores", h.RecalculateTrustScores)

			r.Group(func(r chi.Router) {
				r.Use(Require(domain.CapVerifyCollectors))
				r.Get("/collectors/pending", h.PendingCollectors)
				r.Post("/collectors/{id}/actions", h.CollectorAction)
				r.Post("/collectors/{id}/reset-stats", h.ResetCollectorStats)
			})

			r.Group(func(r chi.Router) {
				r.Use(Require(domain.CapAssignWork))
				r.Get("/vendors/eligible", h.EligibleVendors)
				r.Get("/collectors/eligible", h.EligibleCollectors)
				r.Post("/products/{id}/assign-vendor", h.AssignVendor)
				r.Post("/products/{id}/assign-collector", h.AssignCollector)
			})

			r.Group(func(r chi.Router) {
				r.Use(Require(domain.CapResolveFraud))
				r.Get("/fraud-flags", h.FraudFlags)
				r.Post("/fraud-flags/{id}/resolve", h.ResolveFlag)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		Error(w, r, domain.ErrNotFound)
	})
	return r
}
