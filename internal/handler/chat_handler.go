package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"healthmate-be/internal/container"
	"healthmate-be/pkg/errors"
)

// ChatHandler handles the anonymous support chat
type ChatHandler struct {
	container *container.Container
}

// NewChatHandler creates a new chat handler
func NewChatHandler(container *container.Container) *ChatHandler {
	return &ChatHandler{container: container}
}

// Page handles GET /anonymous-chat. A page visit opens a fresh anonymous
// conversation seeded with the bot greeting; nothing links it to the
// signed-in user.
func (h *ChatHandler) Page(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	conversationID, greeting, err := h.container.GetServices().Chat.StartConversation(r.Context())
	if err != nil {
		writeError(w, errors.NewInternalError("Failed to start conversation", err), logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"conversation_id": conversationID,
		"messages":        []interface{}{greeting},
	}, logger)
}

// StartConversation handles POST /anonymous-chat/conversations
func (h *ChatHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	conversationID, greeting, err := h.container.GetServices().Chat.StartConversation(r.Context())
	if err != nil {
		writeError(w, errors.NewInternalError("Failed to start conversation", err), logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"conversation_id": conversationID,
		"message":         greeting,
	}, logger)
}

// SendMessage handles POST /anonymous-chat/conversations/{conversationID}/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()
	conversationID := chi.URLParam(r, "conversationID")

	var req struct {
		Text string `json:"text"`
	}
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr, logger)
		return
	}

	userMsg, botMsg, err := h.container.GetServices().Chat.SendMessage(r.Context(), conversationID, req.Text)
	if err != nil {
		writeError(w, errors.NewValidationError(err.Error(), nil), logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": []interface{}{userMsg, botMsg},
	}, logger)
}

// Transcript handles GET /anonymous-chat/conversations/{conversationID}/messages
func (h *ChatHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()
	conversationID := chi.URLParam(r, "conversationID")

	messages, err := h.container.GetServices().Chat.Transcript(r.Context(), conversationID)
	if err != nil {
		writeError(w, errors.NewInternalError("Failed to load transcript", err), logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": messages,
	}, logger)
}
