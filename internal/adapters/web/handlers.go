package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"invoice-admin/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{svc: svc, jwtSecret: jwtSecret}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/users/register", h.register)
	r.Post("/api/users/login", h.login)
	r.Post("/api/users/logout", h.logout)

	// ── Protected (401 JSON if unauthenticated) ──────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/users/me", h.me)
		r.Post("/api/users", h.createUser)
		r.Get("/api/users", h.listUsers)
		r.Put("/api/users/{id}/role", h.reassignRole)
		r.Delete("/api/users/{id}", h.deleteUser)

		r.Post("/api/invoices", h.createInvoice)
		r.Put("/api/invoices/{number}", h.updateInvoice)
		r.Delete("/api/invoices", h.deleteInvoices)
		r.Get("/api/invoices", h.listInvoices)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, http.StatusOK, response{Status: "ok"})
}

// decodeJSON decodes the request body into v. On failure it writes the error
// response and returns false: HTTP 413 when the body exceeds the limit set by
// RequestBodyLimit, HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, "request body too large", "PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
