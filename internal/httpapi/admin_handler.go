package httpapi

import (
	"ERecyclo/internal/core/domain"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func errMissing(field string) error {
	return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
}

func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboards.Admin(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, d)
}

func (h *Handler) PendingVendors(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Verification.PendingVendors(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, list)
}

type actionRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

func (h *Handler) VendorAction(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentUser(w, r)
	if !ok {
		return
	}
	vendorID, err := pathID(r, "id")
	if err != nil {
		Error(w, r, err)
		return
	}
	var req actionRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	action, err := domain.ParseVerificationAction(req.Action)
	if err != nil {
		Error(w, r, err)
		return
	}
	res, err := h.svc.Verification.ApplyVendorAction(r.Context(), admin.ID, vendorID, action)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

func (h *Handler) ResetVendorRating(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathID(r, "id")
	if err != nil {
		Error(w, r, err)
		return
	}
	v, err := h.svc.Verification.ResetVendorRating(r.Context(), vendorID)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, v)
}

type forensicsRequest struct {
	Score *decimal.Decimal `json:"score"`
}

func (h *Handler) SetForensicsScore(w http.ResponseWriter, r *http.Request) {
	vendorID, err := pathID(r, "id")
	if err != nil {
		Error(w, r, err)
		return
	}
	var req forensicsRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	if req.Score == nil {
		Error(w, r, errMissing("score"))
		return
	}
	v, err := h.svc.Verification.SetForensicsScore(r.Context(), vendorID, *req.Score)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, v)
}

type trustScoresRequest struct {
	VendorIDs []uuid.UUID `json:"vendor_ids"`
}

// RecalculateTrustScores updates every vendor when vendor_ids is empty.
func (h *Handler) RecalculateTrustScores(w http.ResponseWriter, r *http.Request) {
	var req trustScoresRequest
	if r.ContentLength != 0 {
		if err := decode(w, r, &req); err != nil {
			Error(w, r, err)
			return
		}
	}
	n, err := h.svc.Scoring.RecalculateTrustScores(r.Context(), req.VendorIDs)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]int{"updated": n})
}

func (h *Handler) PendingCollectors(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Verification.PendingCollectors(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, list)
}

func (h *Handler) EligibleVendors(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Assignment.EligibleVendors(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, list)
}

func (h *Handler) EligibleCollectors(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Assignment.EligibleCollectors(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, list)
}

func (h *Handler) CollectorAction(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentUser(w, r)
	if !ok {
		return
	}
	collectorID, err := pathID(r, "id")
	if err != nil {
		Error(w, r, err)
		return
	}
	var req actionRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	action, err := domain.ParseVerificationAction(req.Action)
	if err != nil {
		Error(w, r, err)
		return
	}
	res, err := h.svc.Verification.ApplyCollectorAction(r.Context(), admin.ID, collectorID, action, req.Reason)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

func (h *Handler) ResetCollectorStats(w http.ResponseWriter, r *http.Request) {
	collectorID, err := pathID(r, "id")
	if err != nil {
		Error(w, r, err)
		return
	}
	c, err := h.svc.Verification.ResetCollectorStats(r.Context(), collectorID)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, c)
}

type assignVendorRequest struct {
	VendorID uuid.UUID `json:"vendor_id"`
}

func (h *Handler) AssignVendor(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		Error(w, r, err)
		return
	}
	var req assignVendorRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	if req.VendorID == uuid.Nil {
		Error(w, r, errMissing("vendor_id"))
		return
	}
	p, err := h.svc.Assignment.AssignVendor(r.Context(), productID, req.VendorID)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

type assignCollectorRequest struct {
	CollectorID uuid.UUID `json:"collector_id"`
}

func (h *Handler) AssignCollector(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		Error(w, r, err)
		return
	}
	var req assignCollectorRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	if req.CollectorID == uuid.Nil {
		Error(w, r, errMissing("collector_id"))
		return
	}
	p, err := h.svc.Assignment.AssignCollector(r.Context(), productID, req.CollectorID)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, p)
}

func (h *Handler) FraudFlags(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Fraud.OpenFlags(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, list)
}

type resolveRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

func (h *Handler) ResolveFlag(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentUser(w, r)
	if !ok {
		return
	}
	flagID, err := pathID(r, "id")
	if err != nil {
		Error(w, r, err)
		return
	}
	var req resolveRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	decision, err := domain.ParseFraudDecision(req.Decision)
	if err != nil {
		Error(w, r, err)
		return
	}
	f, err := h.svc.Fraud.ResolveFlag(r.Context(), admin.ID, flagID, decision, req.Notes)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, http.StatusOK, f)
}
