package web

import (
	"net/http"
	"strconv"

	"invoice-admin/internal/app"

	"github.com/go-chi/chi/v5"
)

// createInvoice handles POST /api/invoices.
func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req app.CreateInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.svc.CreateInvoice(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// updateInvoice handles PUT /api/invoices/{number}.
func (h *Handler) updateInvoice(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, r, "invalid invoice number", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var req app.UpdateInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.svc.UpdateInvoice(r.Context(), number, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// deleteInvoices handles DELETE /api/invoices with a JSON id list.
func (h *Handler) deleteInvoices(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int `json:"ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	count, err := h.svc.DeleteInvoices(r.Context(), req.IDs)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	type response struct {
		DeletedCount int64 `json:"deleted_count"`
	}
	writeJSON(w, http.StatusOK, response{DeletedCount: count})
}

// listInvoices handles GET /api/invoices with optional filters.
func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.ListInvoicesRequest{
		FiscalYear: q.Get("financial_year"),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
		Search:     q.Get("search"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 10),
	}
	result, err := h.svc.ListInvoices(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
