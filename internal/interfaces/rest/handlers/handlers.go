// Package handlers exposes the invoicing service over a small JSON API.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/rechnung/invoicing-core/internal/core/service"
	"github.com/rechnung/invoicing-core/internal/interfaces/rest"
)

type Handlers struct {
	service *service.InvoiceService
	logger  *slog.Logger
}

func NewHandlers(svc *service.InvoiceService, logger *slog.Logger) *Handlers {
	return &Handlers{service: svc, logger: logger}
}

// Routes wires every operation onto a mux using method-qualified patterns.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /invoices", h.CreateInvoice)
	mux.HandleFunc("GET /invoices/{id}", h.GetInvoice)
	mux.HandleFunc("PUT /invoices/{id}", h.UpdateInvoice)
	mux.HandleFunc("POST /invoices/{id}/finalize", h.FinalizeInvoice)
	mux.HandleFunc("POST /invoices/{id}/payments", h.MarkInvoicePaid)
	mux.HandleFunc("GET /invoices/{id}/number", h.PreviewInvoiceNumber)
	mux.HandleFunc("POST /invoices/{id}/number", h.IssueInvoiceNumber)
	mux.HandleFunc("GET /invoices/{id}/payment-code", h.PaymentCode)
	mux.HandleFunc("GET /vendors/{id}/invoices", h.ListVendorInvoices)
	mux.HandleFunc("PUT /vendors/{id}/bank-account", h.SaveBankAccount)
	return mux
}

func (h *Handlers) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeBadRequest(w, "INVALID_ID", "path id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) writeBadRequest(w http.ResponseWriter, code, message string) {
	h.writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{
		Success: false,
		Error:   rest.ErrorDetail{Code: code, Message: message},
	})
}
