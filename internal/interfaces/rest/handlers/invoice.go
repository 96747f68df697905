package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rechnung/invoicing-core/internal/core/domain"
	"github.com/rechnung/invoicing-core/internal/interfaces/rest"
)

type invoiceRequest struct {
	VendorID     string            `json:"vendor_id"`
	CustomerID   string            `json:"customer_id"`
	Currency     string            `json:"currency"`
	Date         time.Time         `json:"date"`
	DueDate      *time.Time        `json:"due_date"`
	DeliveryDate *time.Time        `json:"delivery_date"`
	Final        bool              `json:"final"`
	Items        []lineItemRequest `json:"items"`
}

type lineItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	UnitPrice   string `json:"unit_price"`
	TaxRate     string `json:"tax_rate"`
}

type invoiceResponse struct {
	Success bool                `json:"success"`
	Data    rest.InvoicePayload `json:"data"`
}

func (h *Handlers) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.decodeInvoice(w, r, uuid.Nil)
	if !ok {
		return
	}
	if err := h.service.Create(r.Context(), inv); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	h.writeJSON(w, http.StatusCreated, invoiceResponse{Success: true, Data: rest.ToInvoicePayload(inv)})
}

func (h *Handlers) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	inv, ok := h.decodeInvoice(w, r, id)
	if !ok {
		return
	}
	if err := h.service.Save(r.Context(), inv); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	h.writeJSON(w, http.StatusOK, invoiceResponse{Success: true, Data: rest.ToInvoicePayload(inv)})
}

func (h *Handlers) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	inv, err := h.service.Get(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	h.writeJSON(w, http.StatusOK, invoiceResponse{Success: true, Data: rest.ToInvoicePayload(inv)})
}

func (h *Handlers) ListVendorInvoices(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	limit, offset := pagination(r)
	invoices, err := h.service.ListByVendor(r.Context(), vendorID, limit, offset)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}
	payloads := make([]rest.InvoicePayload, 0, len(invoices))
	for _, inv := range invoices {
		payloads = append(payloads, rest.ToInvoicePayload(inv))
	}
	h.writeJSON(w, http.StatusOK, struct {
		Success bool                  `json:"success"`
		Data    []rest.InvoicePayload `json:"data"`
	}{Success: true, Data: payloads})
}

func (h *Handlers) decodeInvoice(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*domain.Invoice, bool) {
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadRequest(w, "INVALID_BODY", "request body must be valid JSON")
		return nil, false
	}
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		h.writeBadRequest(w, "INVALID_BODY", "vendor_id must be a UUID")
		return nil, false
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.writeBadRequest(w, "INVALID_BODY", "customer_id must be a UUID")
		return nil, false
	}

	inv := &domain.Invoice{
		ID:           id,
		VendorID:     vendorID,
		CustomerID:   customerID,
		Currency:     domain.Currency(req.Currency),
		Date:         req.Date,
		DueDate:      req.DueDate,
		DeliveryDate: req.DeliveryDate,
		Final:        req.Final,
	}
	for i, item := range req.Items {
		li, err := decodeLineItem(item, i)
		if err != nil {
			h.writeBadRequest(w, "INVALID_BODY", err.Error())
			return nil, false
		}
		inv.Items = append(inv.Items, li)
	}
	return inv, true
}

func decodeLineItem(req lineItemRequest, position int) (domain.LineItem, error) {
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("items[%d].quantity is not a decimal", position)
	}
	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("items[%d].unit_price is not a decimal", position)
	}
	taxRate, err := decimal.NewFromString(req.TaxRate)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("items[%d].tax_rate is not a decimal", position)
	}
	return domain.LineItem{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    quantity,
		Unit:        req.Unit,
		UnitPrice:   unitPrice,
		TaxRate:     taxRate,
		Position:    position,
	}, nil
}

func pagination(r *http.Request) (limit, offset int) {
	limit, offset = 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := parsePositive(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := parsePositive(v); err == nil {
			offset = n
		}
	}
	return limit, offset
}

func parsePositive(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}
