package httpapi

import (
	"ERecyclo/internal/core/ports"
	"net/http"

	"github.com/shopspring/decimal"
)

type uploadRequest struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Image          string          `json:"image"`
	WeightApprox   decimal.Decimal `json:"weight_approx"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
}

func (h *Handler) UploadProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req uploadRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	p, err := h.svc.Products.Upload(r.Context(), user.ID, ports.UploadProductInput{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Image:          req.Image,
		WeightApprox:   req.WeightApprox,
		EstimatedValue: req.EstimatedValue,
	})
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, p)
}

func (h *Handler) CustomerDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	d, err := h.svc.Dashboards.Customer(r.Context(), user)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, d)
}

func (h *Handler) MyProducts(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.svc.Products.ListMine(r.Context(), user.ID)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, list)
}

type pickupRequest struct {
	LocationText string           `json:"location_text"`
	Latitude     *decimal.Decimal `json:"latitude"`
	Longitude    *decimal.Decimal `json:"longitude"`
	Notes        string           `json:"notes"`
}

func (h *Handler) RequestPickup(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	productID, err := pathID(r, "id")
	if err != nil {
		Error(w, r, err)
		return
	}
	var req pickupRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	pr, err := h.svc.Products.RequestPickup(r.Context(), user.ID, productID, ports.PickupInput{
		LocationText: req.LocationText,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Notes:        req.Notes,
	})
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, pr)
}

func (h *Handler) CancelProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	productID, err := pathID(r, "id")
	if err != nil {
		Error(w, r, err)
		return
	}
	p, err := h.svc.Products.Cancel(r.Context(), user.ID, productID)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

// ProductDetail is open to every role; the service checks ownership.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	productID, err := pathID(r, "id")
	if err != nil {
		Error(w, r, err)
		return
	}
	d, err := h.svc.Products.Detail(r.Context(), user, productID)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, d)
}
