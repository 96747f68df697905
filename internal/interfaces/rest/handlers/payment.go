package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rechnung/invoicing-core/internal/core/banking"
	"github.com/rechnung/invoicing-core/internal/core/domain"
	"github.com/rechnung/invoicing-core/internal/interfaces/rest"
)

type paymentCodeResponse struct {
	Success bool   `json:"success"`
	Payload string `json:"payload"`
}

// PaymentCode returns the EPC QR payload for the invoice. Clients render
// the QR image themselves.
func (h *Handlers) PaymentCode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	payload, err := h.service.PaymentCode(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	h.writeJSON(w, http.StatusOK, paymentCodeResponse{Success: true, Payload: payload})
}

type bankAccountRequest struct {
	Owner string `json:"owner"`
	IBAN  string `json:"iban"`
	BIC   string `json:"bic"`
}

type bankAccountResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Owner   string `json:"owner"`
	IBAN    string `json:"iban"`
	BIC     string `json:"bic,omitempty"`
}

func (h *Handlers) SaveBankAccount(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req bankAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, "INVALID_BODY", "request body must be valid JSON")
		return
	}

	acct := &domain.BankAccount{VendorID: vendorID, Owner: req.Owner}
	iban, err := banking.ParseIBAN(req.IBAN)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	acct.IBAN = iban
	if req.BIC != "" {
		bic, err := banking.ParseBIC(req.BIC)
		if err != nil {
			rest.WriteError(w, err, h.logger)
			return
		}
		acct.BIC = bic
	}

	if err := h.service.SaveBankAccount(r.Context(), acct); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	h.writeJSON(w, http.StatusOK, bankAccountResponse{
		Success: true,
		ID:      acct.ID.String(),
		Owner:   acct.Owner,
		IBAN:    acct.IBAN.String(),
		BIC:     acct.BIC.String(),
	})
}
