package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
	"github.com/heartmarshall/gratitude-backend/internal/service/messaging"
)

type messageSender interface {
	Send(ctx context.Context, in messaging.SendInput) (*domain.SendResult, error)
}

// MessageHandler serves outbound SMS and WhatsApp messages.
type MessageHandler struct {
	svc messageSender
	log *slog.Logger
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(svc messageSender, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, log: logger.With("handler", "messages")}
}

// Send handles POST /api/messages.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(w, r); !ok {
		return
	}

	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.Send(r.Context(), messaging.SendInput{
		To:        req.To,
		Body:      req.Body,
		Channel:   domain.Channel(req.Channel),
		ContactID: req.ContactID,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sendResultResponse{
		MessageID: res.MessageID,
		Status:    res.Status,
		To:        res.To,
		Channel:   res.Channel.String(),
	})
}
