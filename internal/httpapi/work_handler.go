package httpapi

import (
	"ERecyclo/internal/core/domain"
	"ERecyclo/internal/core/ports"
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (h *Handler) VendorDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	d, err := h.svc.Dashboards.Vendor(r.Context(), user.ID)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, d)
}

func (h *Handler) VendorProducts(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.svc.Products.ListAssigned(r.Context(), user.ID)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, list)
}

type evaluateRequest struct {
	FinalValue decimal.Decimal `json:"final_value"`
	Notes      string          `json:"notes"`
}

func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	productID, err := pathID(r, "id")
	if err != nil {
		Error(w, r, err)
		return
	}
	var req evaluateRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	res, err := h.svc.Products.Evaluate(r.Context(), user.ID, productID, ports.EvaluationInput{
		FinalValue: req.FinalValue,
		Notes:      req.Notes,
	})
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

func (h *Handler) CollectorDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	d, err := h.svc.Dashboards.Collector(r.Context(), user.ID)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, d)
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req availabilityRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	if req.Available == nil {
		Error(w, r, errMissing("available"))
		return
	}
	c, err := h.svc.Products.ToggleAvailability(r.Context(), user.ID, *req.Available)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, c)
}

func (h *Handler) PickedUp(w http.ResponseWriter, r *http.Request) {
	h.collectorStep(w, r, h.svc.Products.MarkPickedUp)
}

func (h *Handler) Delivered(w http.ResponseWriter, r *http.Request) {
	h.collectorStep(w, r, h.svc.Products.MarkDelivered)
}

func (h *Handler) collectorStep(w http.ResponseWriter, r *http.Request, step func(ctx context.Context, collectorUserID, productID uuid.UUID) (*domain.Product, error)) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	productID, err := pathID(r, "id")
	if err != nil {
		Error(w, r, err)
		return
	}
	p, err := step(r.Context(), user.ID, productID)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}
