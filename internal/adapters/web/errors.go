package web

import (
	"encoding/json"
	"net/http"

	"invoice-admin/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps a classified core error to an HTTP response.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	kind := core.KindOf(err)
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch kind {
	case core.KindValidation:
		status, code = http.StatusBadRequest, "BAD_REQUEST"
	case core.KindPermissionDenied:
		status, code = http.StatusForbidden, "FORBIDDEN"
	case core.KindConflict:
		status, code = http.StatusConflict, "CONFLICT"
	case core.KindOutOfOrder:
		status, code = http.StatusUnprocessableEntity, "OUT_OF_ORDER"
	case core.KindNotFound:
		status, code = http.StatusNotFound, "NOT_FOUND"
	case core.KindUnavailable:
		status, code = http.StatusServiceUnavailable, "UNAVAILABLE"
	}
	writeError(w, r, err.Error(), code, status)
}
