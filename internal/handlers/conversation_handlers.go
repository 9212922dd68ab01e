package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-workspaces/backend/internal/apperr"
	"project-workspaces/backend/internal/middleware"
	"project-workspaces/backend/internal/models"
	"project-workspaces/backend/internal/ownership"
	"project-workspaces/backend/internal/store"
)

type ConversationHandler struct {
	resolver      *ownership.Resolver
	conversations store.ConversationStore
	logger        *zap.Logger
}

func NewConversationHandler(resolver *ownership.Resolver, conversations store.ConversationStore, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{resolver: resolver, conversations: conversations, logger: logger}
}

// List handles GET /projects/{projectId}/conversations, most recently updated
// first, each with its message count.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectId"))
	if err != nil {
		writeBadRequest(w, "invalid project ID")
		return
	}

	if _, _, err := h.resolver.ResolveProject(r.Context(), projectID, middleware.UserEmail(r.Context())); err != nil {
		writeError(h.logger, w, err)
		return
	}

	conversations, err := h.conversations.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(h.logger, w, apperr.Internal("failed to list conversations", err))
		return
	}
	if conversations == nil {
		conversations = []*models.Conversation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}

type createConversationRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// Create handles POST /projects/{projectId}/conversations.
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectId"))
	if err != nil {
		writeBadRequest(w, "invalid project ID")
		return
	}

	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "conversation title must be 1 to 200 characters")
		return
	}

	if _, _, err := h.resolver.ResolveProject(r.Context(), projectID, middleware.UserEmail(r.Context())); err != nil {
		writeError(h.logger, w, err)
		return
	}

	conversation, err := h.conversations.Create(r.Context(), projectID, req.Title)
	if err != nil {
		writeError(h.logger, w, apperr.Internal("failed to create conversation", err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "Conversation created successfully",
		"conversation": conversation,
	})
}

// Get handles GET /conversations/{conversationId}.
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(chi.URLParam(r, "conversationId"))
	if err != nil {
		writeBadRequest(w, "invalid conversation ID")
		return
	}

	_, conversation, err := h.resolver.ResolveConversation(r.Context(), conversationID, middleware.UserEmail(r.Context()))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversation": conversation})
}

// Messages handles GET /conversations/{conversationId}/messages in
// chronological order.
func (h *ConversationHandler) Messages(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(chi.URLParam(r, "conversationId"))
	if err != nil {
		writeBadRequest(w, "invalid conversation ID")
		return
	}

	if _, _, err := h.resolver.ResolveConversation(r.Context(), conversationID, middleware.UserEmail(r.Context())); err != nil {
		writeError(h.logger, w, err)
		return
	}

	messages, err := h.conversations.ListMessages(r.Context(), conversationID)
	if err != nil {
		writeError(h.logger, w, apperr.Internal("failed to list messages", err))
		return
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}
