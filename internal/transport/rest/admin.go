package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

type adminService interface {
	ListUsers(ctx context.Context) ([]domain.UserSummary, error)
	SetRole(ctx context.Context, targetID string, role domain.UserRole) (*domain.Profile, error)
	SetSuspended(ctx context.Context, targetID string, suspend bool) (*domain.Profile, error)
	DeleteUser(ctx context.Context, targetID string) error
	IssuePasswordReset(ctx context.Context, targetID string) (string, error)
	AuditLog(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error)
}

// AdminHandler serves admin REST endpoints. Permission checks live in the
// admin service, which reads the caller's stored role.
type AdminHandler struct {
	svc adminService
	log *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(svc adminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: logger.With("handler", "admin")}
}

type roleRequest struct {
	Role string `json:"role"`
}

type suspendRequest struct {
	Suspended bool `json:"suspended"`
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]userSummaryResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userSummaryResponse{
			profileResponse: toProfileResponse(u.Profile),
			SessionCount:    u.SessionCount,
			ContactCount:    u.ContactCount,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// SetRole handles PUT /api/admin/users/{id}/role.
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.SetRole(r.Context(), chi.URLParam(r, "id"), domain.UserRole(req.Role))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(*p))
}

// Suspend handles POST /api/admin/users/{id}/suspend with {"suspended": bool}.
func (h *AdminHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	var req suspendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.SetSuspended(r.Context(), chi.URLParam(r, "id"), req.Suspended)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(*p))
}

// DeleteUser handles DELETE /api/admin/users/{id}.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PasswordReset handles POST /api/admin/users/{id}/password-reset.
func (h *AdminHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	link, err := h.svc.IssuePasswordReset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"resetLink": link})
}

// AuditLog handles GET /api/admin/audit?user=&limit=.
func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	var filter domain.AuditFilter
	q := r.URL.Query()
	if v := q.Get("user"); v != "" {
		filter.TargetUserID = &v
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("limit", "must be a whole number"))
			return
		}
		filter.Limit = n
	}

	entries, err := h.svc.AuditLog(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryResponse{
			ID:           e.ID,
			UserID:       e.UserID,
			Email:        e.Email,
			Action:       e.Action.String(),
			TargetUserID: e.TargetUserID,
			Details:      e.Details,
			CreatedAt:    e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
