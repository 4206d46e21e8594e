package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakib/webstack/internal/service"
)

// AdminHandler exposes debug/inspection endpoints.
//
// These are operator conveniences, not product surface: the user listing
// exists to answer "did that signup actually land?" without opening a
// sqlite shell on the server. The route sits behind RequireAuth — any valid
// account may call it, which is acceptable for a single-tenant starter but
// is the first thing to tighten if this ever grows a role model.
type AdminHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(authService *service.AuthService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		logger:      logger,
	}
}

// adminUser is the listing row — deliberately id/email/created_at only.
type adminUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// HandleListUsers lists registered users, newest first.
//
// HTTP: GET /api/admin/users          → latest 50 users
// HTTP: GET /api/admin/users?email=x  → rows matching that exact email
// AUTH: bearer token required (RequireAuth middleware)
//
// RESPONSE: 200 {"ok": true, "users": [{"id":1,"email":"...","created_at":"..."}]}
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	users, err := h.authService.ListUsers(r.Context(), email, 0)
	if err != nil {
		h.logger.Error("admin user listing failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	rows := make([]adminUser, 0, len(users))
	for _, u := range users {
		rows = append(rows, adminUser{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt})
	}

	writeJSON(w, http.StatusOK, struct {
		OK    bool        `json:"ok"`
		Users []adminUser `json:"users"`
	}{
		OK:    true,
		Users: rows,
	})
}
