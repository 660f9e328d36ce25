package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/internal/service/profile"
	"github.com/heartmarshall/gratitude-backend/pkg/ctxutil"
)

type profileService interface {
	SignIn(ctx context.Context, in profile.SignInInput) (*domain.Profile, error)
	Get(ctx context.Context) (*domain.Profile, error)
	UpdatePhone(ctx context.Context, phone string) (*domain.Profile, error)
}

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	svc profileService
	log *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(svc profileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, log: logger.With("handler", "profile")}
}

type signInRequest struct {
	DisplayName string `json:"displayName"`
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

// SignIn handles POST /api/me/sign-in. The identity comes from the
// verified token; the body may only supply a display name.
func (h *ProfileHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req signInRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.SignIn(r.Context(), profile.SignInInput{
		UserID:      userID,
		Email:       ctxutil.EmailFromCtx(r.Context()),
		DisplayName: req.DisplayName,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(*p))
}

// Me handles GET /api/me.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(*p))
}

// UpdatePhone handles PUT /api/me/phone. An empty phone clears it.
func (h *ProfileHandler) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.svc.UpdatePhone(r.Context(), req.Phone)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(*p))
}
