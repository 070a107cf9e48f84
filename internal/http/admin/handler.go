package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/http/respond"
	"github.com/MrJamesThe3rd/chaibook/internal/subscription"
)

type Handler struct {
	svc  *account.Service
	gate subscription.Gate
}

func NewHandler(svc *account.Service, gate subscription.Gate) *Handler {
	return &Handler{svc: svc, gate: gate}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/overview", h.overview)
	r.Get("/vendors", h.listVendors)
	r.Post("/vendors", h.createVendor)
	r.Patch("/vendors/{id}", h.updateVendor)
	r.Delete("/vendors/{id}", h.deleteVendor)
}

type vendorResponse struct {
	ID              string `json:"id"`
	SubscriptionEnd string `json:"subscription_end"`
	MaxOffices      int    `json:"max_offices"`
	Address         string `json:"address,omitempty"`
	Status          string `json:"status"`
	DaysLeft        int    `json:"days_left"`
}

func (h *Handler) toResponse(a *account.Account) vendorResponse {
	verdict := h.gate.Check(a.SubscriptionEnd)

	return vendorResponse{
		ID:              a.ID,
		SubscriptionEnd: a.SubscriptionEnd.Format(time.DateOnly),
		MaxOffices:      a.MaxOffices,
		Address:         a.Address,
		Status:          verdict.Status.String(),
		DaysLeft:        verdict.DaysLeft,
	}
}

type overviewResponse struct {
	TotalVendors int              `json:"total_vendors"`
	Expiring     []vendorResponse `json:"expiring"`
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.svc.Overview(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := overviewResponse{
		TotalVendors: ov.TotalVendors,
		Expiring:     make([]vendorResponse, 0, len(ov.Expiring)),
	}

	for _, e := range ov.Expiring {
		resp.Expiring = append(resp.Expiring, h.toResponse(e.Vendor))
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.svc.ListVendors(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]vendorResponse, 0, len(vendors))
	for _, v := range vendors {
		resp = append(resp, h.toResponse(v))
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createVendorRequest struct {
	ID              string `json:"id"`
	Password        string `json:"password"`
	SubscriptionEnd string `json:"subscription_end"`
	MaxOffices      int    `json:"max_offices"`
	Address         string `json:"address"`
}

func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var req createVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	end, err := time.Parse(time.DateOnly, req.SubscriptionEnd)
	if err != nil {
		http.Error(w, "subscription_end must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	v, err := h.svc.AddVendor(r.Context(), account.VendorParams{
		ID:              req.ID,
		Secret:          req.Password,
		SubscriptionEnd: end,
		MaxOffices:      req.MaxOffices,
		Address:         req.Address,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, h.toResponse(v))
}

type updateVendorRequest struct {
	SubscriptionEnd *string `json:"subscription_end"`
	MaxOffices      *int    `json:"max_offices"`
}

func (h *Handler) updateVendor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	current, err := h.svc.Vendor(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	end, maxOffices := current.SubscriptionEnd, current.MaxOffices

	if req.SubscriptionEnd != nil {
		end, err = time.Parse(time.DateOnly, *req.SubscriptionEnd)
		if err != nil {
			http.Error(w, "subscription_end must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	if req.MaxOffices != nil {
		maxOffices = *req.MaxOffices
	}

	v, err := h.svc.UpdateVendor(r.Context(), id, end, maxOffices)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.toResponse(v))
}

func (h *Handler) deleteVendor(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteVendor(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
