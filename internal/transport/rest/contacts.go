package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/internal/service/contactio"
)

type contactTransfer interface {
	Import(ctx context.Context, userID string, r io.Reader) (*contactio.ImportResult, error)
	Export(ctx context.Context, userID string, w io.Writer) (int, error)
}

// ContactHandler serves contact, birthday and contact CSV endpoints.
type ContactHandler struct {
	stores       StoreFunc
	transfer     contactTransfer
	upcomingDays int
	log          *slog.Logger
	now          func() time.Time
}

// NewContactHandler creates a ContactHandler. upcomingDays is the default
// window for GET /api/birthdays/upcoming.
func NewContactHandler(stores StoreFunc, transfer contactTransfer, upcomingDays int, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		stores:       stores,
		transfer:     transfer,
		upcomingDays: upcomingDays,
		log:          logger.With("handler", "contacts"),
		now:          time.Now,
	}
}

func (h *ContactHandler) store(w http.ResponseWriter, r *http.Request) (EntryStore, bool) {
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

// List handles GET /api/contacts.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	contacts, err := st.GetAllContacts(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactResponses(contacts))
}

// Create handles POST /api/contacts.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := st.AddContact(r.Context(), req.toInput())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	c, err := st.GetContact(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toContactResponse(*c))
}

// Get handles GET /api/contacts/{id}.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	c, err := st.GetContact(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactResponse(*c))
}

// Update handles PUT /api/contacts/{id}.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := st.UpdateContact(r.Context(), id, req.toInput())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactResponse(*c))
}

// Delete handles DELETE /api/contacts/{id}.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := st.DeleteContact(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Messages handles GET /api/contacts/{id}/messages.
func (h *ContactHandler) Messages(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	msgs, err := st.GetSentMessages(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]sentMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, sentMessageResponse{
			ID:                m.ID,
			Channel:           m.Channel.String(),
			Body:              m.Body,
			ProviderMessageID: m.ProviderMessageID,
			Status:            m.Status,
			SentAt:            m.SentAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Upcoming handles GET /api/birthdays/upcoming?days=N.
func (h *ContactHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}

	days := h.upcomingDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handleError(h.log, w, r, domain.NewValidationError("days", "must be a whole number"))
			return
		}
		days = n
	}

	upcoming, err := st.GetUpcomingBirthdays(r.Context(), days)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]upcomingBirthdayResponse, 0, len(upcoming))
	for _, u := range upcoming {
		out = append(out, upcomingBirthdayResponse{
			Contact:   toContactResponse(u.Contact),
			Date:      domain.FormatDate(u.Date),
			DaysUntil: u.DaysUntil,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ForMonth handles GET /api/birthdays/month/{month}.
func (h *ContactHandler) ForMonth(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(w, r)
	if !ok {
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		handleError(h.log, w, r, domain.NewValidationError("month", "must be between 1 and 12"))
		return
	}

	contacts, err := st.GetBirthdaysForMonth(r.Context(), month)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactResponses(contacts))
}

// Import handles POST /api/contacts/import with a text/csv body.
func (h *ContactHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	res, err := h.transfer.Import(r.Context(), userID, r.Body)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	type rowError struct {
		Row     int    `json:"row"`
		Message string `json:"message"`
		Skipped bool   `json:"skipped"`
	}
	rows := make([]rowError, 0, len(res.Rows))
	for _, re := range res.Rows {
		rows = append(rows, rowError{Row: re.Row, Message: re.Message, Skipped: re.Skipped})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"imported": res.Imported,
		"skipped":  res.Skipped,
		"rows":     rows,
	})
}

// Export handles GET /api/contacts/export.
func (h *ContactHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	// Buffer so a store failure can still become a JSON error.
	var buf bytes.Buffer
	if _, err := h.transfer.Export(r.Context(), userID, &buf); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	name := fmt.Sprintf("contacts-%s.csv", h.now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}
