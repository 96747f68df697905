package handlers

import (
	"net/http"

	"github.com/rechnung/invoicing-core/internal/interfaces/rest"
)

type finalizeResponse struct {
	Success  bool                  `json:"success"`
	Data     rest.InvoicePayload   `json:"data"`
	Warnings []rest.WarningPayload `json:"warnings,omitempty"`
}

// FinalizeInvoice flips the invoice into its terminal state. Compliance
// problems do not block the transition; they come back as warnings.
func (h *Handlers) FinalizeInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	inv, warnings, err := h.service.Finalize(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	h.writeJSON(w, http.StatusOK, finalizeResponse{
		Success:  true,
		Data:     rest.ToInvoicePayload(inv),
		Warnings: rest.ToWarningPayloads(warnings),
	})
}

func (h *Handlers) MarkInvoicePaid(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	inv, err := h.service.MarkPaid(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	h.writeJSON(w, http.StatusOK, invoiceResponse{Success: true, Data: rest.ToInvoicePayload(inv)})
}
