package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rechnung/invoicing-core/internal/core/banking"
	"github.com/rechnung/invoicing-core/internal/core/domain"
	"github.com/rechnung/invoicing-core/internal/core/epc"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError maps core errors to HTTP responses.
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	statusCode, errorCode := toHTTPStatus(err)
	if statusCode == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}

	response := ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    errorCode,
			Message: err.Error(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

func toHTTPStatus(err error) (int, string) {
	var finalErr *domain.FinalError
	if errors.As(err, &finalErr) {
		return http.StatusConflict, "INVOICE_FINAL"
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeInvoiceNotFound,
			domain.ErrCodeVendorNotFound,
			domain.ErrCodeCustomerNotFound:
			return http.StatusNotFound, domainErr.Code
		default:
			return http.StatusUnprocessableEntity, domainErr.Code
		}
	}

	var epcErr *epc.Error
	if errors.As(err, &epcErr) {
		return http.StatusUnprocessableEntity, epcErr.Code
	}

	if errors.Is(err, banking.ErrInvalidIBAN) {
		return http.StatusUnprocessableEntity, "INVALID_IBAN"
	}
	if errors.Is(err, banking.ErrInvalidBIC) {
		return http.StatusUnprocessableEntity, "INVALID_BIC"
	}

	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
