package web

import (
	"net/http"
	"strconv"

	"invoice-admin/internal/app"

	"github.com/go-chi/chi/v5"
)

// createUser handles POST /api/users.
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	var req app.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.svc.CreateUser(r.Context(), claims.UserID, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// listUsers handles GET /api/users?page=&limit=.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	result, err := h.svc.ListUsers(r.Context(), claims.UserID, page, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// reassignRole handles PUT /api/users/{id}/role.
func (h *Handler) reassignRole(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	targetID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid user id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Role == "" {
		writeError(w, r, "role is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	seqID, err := h.svc.ReassignRole(r.Context(), claims.UserID, targetID, req.Role)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	type response struct {
		SeqID string `json:"seq_id"`
	}
	writeJSON(w, http.StatusOK, response{SeqID: seqID})
}

// deleteUser handles DELETE /api/users/{id}.
func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	targetID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid user id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteUser(r.Context(), claims.UserID, targetID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
