package httpapi

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`

	// vendor
	CompanyName        string   `json:"company_name,omitempty"`
	LicenseNumber      string   `json:"license_number,omitempty"`
	LicenseDocument    string   `json:"license_document,omitempty"`
	GSTNumber          string   `json:"gst_number,omitempty"`
	Specializations    []string `json:"specializations,omitempty"`
	ProcessingCapacity int      `json:"processing_capacity,omitempty"`

	// collector
	VehicleType          string `json:"vehicle_type,omitempty"`
	VehicleNumber        string `json:"vehicle_number,omitempty"`
	DrivingLicenseNumber string `json:"driving_license_number,omitempty"`
	ProfilePhoto         string `json:"profile_photo,omitempty"`
	DrivingLicenseFront  string `json:"driving_license_front,omitempty"`
	DrivingLicenseBack   string `json:"driving_license_back,omitempty"`
	VehicleRegistration  string `json:"vehicle_registration,omitempty"`
	ServiceArea          string `json:"service_area,omitempty"`
}

func (req registerRequest) base() ports.RegisterInput {
	return ports.RegisterInput{
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
	}
}

type registerResponse struct {
	User      *domain.User      `json:"user"`
	Vendor    *domain.Vendor    `json:"vendor,omitempty"`
	Collector *domain.Collector `json:"collector,omitempty"`
}

// Register creates a customer, vendor or collector account. Admins are
// provisioned out of band.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	role, err := domain.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		Error(w, r, err)
		return
	}

	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}

	var resp registerResponse
	switch role {
	case domain.RoleCustomer:
		resp.User, err = h.svc.Auth.RegisterCustomer(r.Context(), req.base())
	case domain.RoleVendor:
		resp.User, resp.Vendor, err = h.svc.Auth.RegisterVendor(r.Context(), ports.VendorRegistration{
			RegisterInput:      req.base(),
			CompanyName:        req.CompanyName,
			LicenseNumber:      req.LicenseNumber,
			LicenseDocument:    req.LicenseDocument,
			GSTNumber:          req.GSTNumber,
			Specializations:    req.Specializations,
			ProcessingCapacity: req.ProcessingCapacity,
		})
	case domain.RoleCollector:
		resp.User, resp.Collector, err = h.svc.Auth.RegisterCollector(r.Context(), ports.CollectorRegistration{
			RegisterInput:        req.base(),
			VehicleType:          req.VehicleType,
			VehicleNumber:        req.VehicleNumber,
			DrivingLicenseNumber: req.DrivingLicenseNumber,
			ProfilePhoto:         req.ProfilePhoto,
			DrivingLicenseFront:  req.DrivingLicenseFront,
			DrivingLicenseBack:   req.DrivingLicenseBack,
			VehicleRegistration:  req.VehicleRegistration,
			ServiceArea:          req.ServiceArea,
		})
	default:
		err = fmt.Errorf("%w: %s accounts cannot self-register", domain.ErrForbidden, role)
	}
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, resp)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	portal, err := domain.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		Error(w, r, err)
		return
	}
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	session, err := h.svc.Auth.Login(r.Context(), portal, req.Email, req.Password)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, session)
}

func (h *Handler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.Auth.RequestEmailOTP(r.Context(), user.ID); err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusAccepted, map[string]string{"sent_to": user.Email})
}

type verifyOTPRequest struct {
	Code string `json:"code"`
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req verifyOTPRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	if err := h.svc.Auth.VerifyEmailOTP(r.Context(), user.ID, req.Code); err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"email_verified": true})
}
