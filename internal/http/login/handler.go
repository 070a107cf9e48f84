package login

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/auth"
	"github.com/MrJamesThe3rd/chaibook/internal/http/respond"
)

type Handler struct {
	resolver *auth.Resolver
	tokens   *auth.Tokens
}

func NewHandler(resolver *auth.Resolver, tokens *auth.Tokens) *Handler {
	return &Handler{resolver: resolver, tokens: tokens}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.login)
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Role      account.Role `json:"role"`
	VendorID  string       `json:"vendor_id,omitempty"`
	OfficeID  string       `json:"office_id,omitempty"`
	Warning   string       `json:"warning,omitempty"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	s, verdict, err := h.resolver.Login(r.Context(), req.Identifier, req.Secret)
	if err != nil {
		respond.Error(w, err)
		return
	}

	token, expires, err := h.tokens.Issue(s)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := loginResponse{
		Token:     token,
		ExpiresAt: expires,
		Role:      s.Role(),
		VendorID:  s.VendorID(),
		Warning:   verdict.Warning(),
	}

	if s.Role() == account.RoleOffice {
		resp.OfficeID = s.OfficeID().String()
	}

	respond.JSON(w, http.StatusOK, resp)
}
