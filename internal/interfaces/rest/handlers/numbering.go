package handlers

import (
	"net/http"

	"github.com/rechnung/invoicing-core/internal/interfaces/rest"
)

type numberResponse struct {
	Success bool   `json:"success"`
	Number  string `json:"number"`
}

// PreviewInvoiceNumber shows the number the next issuance would assign
// without advancing any counter.
func (h *Handlers) PreviewInvoiceNumber(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	number, err := h.service.PreviewNumber(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	h.writeJSON(w, http.StatusOK, numberResponse{Success: true, Number: number})
}

func (h *Handlers) IssueInvoiceNumber(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	number, err := h.service.IssueNumber(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	h.writeJSON(w, http.StatusOK, numberResponse{Success: true, Number: number})
}
