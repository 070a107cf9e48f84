package office

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chaibook/internal/billing"
	"github.com/MrJamesThe3rd/chaibook/internal/http/respond"
	"github.com/MrJamesThe3rd/chaibook/internal/http/session"
)

type Handler struct {
	billing *billing.Service
}

func NewHandler(billingSvc *billing.Service) *Handler {
	return &Handler{billing: billingSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/bill", h.bill)
}

type lineResponse struct {
	Date   string          `json:"date"`
	Tea    int             `json:"tea"`
	Coffee int             `json:"coffee"`
	Amount decimal.Decimal `json:"amount"`
}

type billResponse struct {
	OfficeID uuid.UUID       `json:"office_id"`
	Office   string          `json:"office"`
	Entries  []lineResponse  `json:"entries"`
	Total    decimal.Decimal `json:"total"`
	Paid     decimal.Decimal `json:"paid"`
	Due      decimal.Decimal `json:"due"`
}

func (h *Handler) bill(w http.ResponseWriter, r *http.Request) {
	s := session.From(r)

	b, err := h.billing.OfficeBill(r.Context(), s.VendorID(), s.OfficeID())
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := billResponse{
		OfficeID: b.Office.ID,
		Office:   b.Office.Name,
		Entries:  make([]lineResponse, 0, len(b.Report.Lines)),
		Total:    b.Report.Total,
		Paid:     b.Paid,
		Due:      b.Due,
	}

	for _, l := range b.Report.Lines {
		resp.Entries = append(resp.Entries, lineResponse{
			Date:   l.Entry.Date,
			Tea:    l.Entry.Tea,
			Coffee: l.Entry.Coffee,
			Amount: l.Amount,
		})
	}

	respond.JSON(w, http.StatusOK, resp)
}
