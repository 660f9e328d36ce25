package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/internal/transport/dataloader"
)

// SessionHandler serves journal session endpoints.
type SessionHandler struct {
	stores StoreFunc
	log    *slog.Logger
	now    func() time.Time
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(stores StoreFunc, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{stores: stores, log: logger.With("handler", "sessions"), now: time.Now}
}

func (h *SessionHandler) store(w http.ResponseWriter, r *http.Request) (EntryStore, bool) {
	userID, ok := callerID(w, r)
	if !ok {
		return nil, false
	}
	st, err := h.stores(userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return nil, false
	}
	return st, true
}

// List handles GET /api/sessions?mode=&range=week|month|year.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var mode *domain.Mode
	if v := q.Get("mode"); v != "" {
		m := domain.Mode(v)
		mode = &m
	}
	dr := domain.DateRange(q.Get("range"))
	if dr != "" && !dr.IsValid() {
		handleError(h.log, w, r, domain.NewValidationError("range", "must be week, month or year"))
		return
	}

	sessions, err := st.GetAllSessions(r.Context(), mode)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if dr != "" {
		sessions = domain.FilterSessionsByDateRange(sessions, dr, h.now())
	}

	writeJSON(w, http.StatusOK, toSessionResponses(sessions))
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}

	var req createSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	id, err := st.CreateSession(r.Context(), in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// SaveEntry handles PUT /api/entries: it creates the day's session or
// replaces the one already stored for that date and mode.
func (h *SessionHandler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}

	var req createSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	id, err := st.SaveEntry(r.Context(), in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}

// ByDate handles GET /api/sessions/by-date?date=YYYY-MM-DD&mode=.
func (h *SessionHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	date, err := domain.ParseDate(q.Get("date"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	sess, err := st.GetSessionByDate(r.Context(), date, domain.Mode(q.Get("mode")))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.writeDetail(w, r, st, sess.ID)
}

// Get handles GET /api/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	h.writeDetail(w, r, st, id)
}

// Update handles PUT /api/sessions/{id}.
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if _, err := st.UpdateSession(r.Context(), id, in); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	h.writeDetail(w, r, st, id)
}

// Delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := st.DeleteSession(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Streak handles GET /api/streak?mode=.
func (h *SessionHandler) Streak(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}

	mode := domain.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = domain.ModeReflective
	}

	days, err := st.Streak(r.Context(), mode, h.now())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mode": mode, "days": days})
}

// writeDetail loads a session with its items and resolves tagged contact
// names through the request's loader. Deleted contacts keep their id with
// an empty name.
func (h *SessionHandler) writeDetail(w http.ResponseWriter, r *http.Request, st EntryStore, id uuid.UUID) {
	sess, err := st.GetSessionWithDetails(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var names map[uuid.UUID]string
	if loaders := dataloader.FromContext(r.Context()); loaders != nil {
		var ids []uuid.UUID
		for _, it := range sess.Items {
			ids = append(ids, it.ContactIDs...)
		}
		if len(ids) > 0 {
			names, err = loaders.ContactNames(r.Context(), ids)
			if err != nil {
				h.log.WarnContext(r.Context(), "resolve contact names", slog.String("error", err.Error()))
			}
		}
	}

	writeJSON(w, http.StatusOK, toSessionResponse(*sess, names))
}
