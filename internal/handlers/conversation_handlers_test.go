package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-workspaces/backend/internal/auth"
	"project-workspaces/backend/internal/handlers"
	"project-workspaces/backend/internal/middleware"
	"project-workspaces/backend/internal/models"
	"project-workspaces/backend/internal/ownership"
	"project-workspaces/backend/internal/store/storetest"
)

func newConversationEnv(t *testing.T) (*chi.Mux, *storetest.Memory, *models.Project, string) {
	t.Helper()
	ctx := context.Background()
	mem := storetest.NewMemory()

	user, err := mem.Users().Create(ctx, "owner@example.com", "hash")
	require.NoError(t, err)
	project, err := mem.Projects().Create(ctx, user.ID, "workspace", nil)
	require.NoError(t, err)
	token, err := auth.CreateJWT(testSecret, user.Email)
	require.NoError(t, err)

	resolver := ownership.NewResolver(mem.Users(), mem.Projects(), mem.Files(), mem.Conversations())
	handler := handlers.NewConversationHandler(resolver, mem.Conversations(), zap.NewNop())

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(testSecret))
		r.Get("/projects/{projectId}/conversations", handler.List)
		r.Post("/projects/{projectId}/conversations", handler.Create)
		r.Get("/conversations/{conversationId}", handler.Get)
		r.Get("/conversations/{conversationId}/messages", handler.Messages)
	})
	return r, mem, project, token
}

func doJSON(t *testing.T, router *chi.Mux, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestConversationLifecycleOverHTTP(t *testing.T) {
	router, mem, project, token := newConversationEnv(t)

	rec := doJSON(t, router, token, http.MethodPost, "/projects/"+project.ID.String()+"/conversations", map[string]any{
		"title": "design chat",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Conversation models.Conversation `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	mem.AddMessage(created.Conversation.ID, "user", "hello")
	mem.AddMessage(created.Conversation.ID, "assistant", "hi there")

	rec = doJSON(t, router, token, http.MethodGet, "/conversations/"+created.Conversation.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Conversation models.Conversation `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Conversation.MessageCount)

	rec = doJSON(t, router, token, http.MethodGet, "/conversations/"+created.Conversation.ID.String()+"/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs struct {
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs.Messages, 2)
	// Chronological order.
	assert.Equal(t, "hello", msgs.Messages[0].Content)
	assert.Equal(t, "hi there", msgs.Messages[1].Content)
}

func TestConversationTitleValidation(t *testing.T) {
	router, _, project, token := newConversationEnv(t)

	rec := doJSON(t, router, token, http.MethodPost, "/projects/"+project.ID.String()+"/conversations", map[string]any{
		"title": "",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForeignConversationIsNotFound(t *testing.T) {
	router, mem, project, token := newConversationEnv(t)
	ctx := context.Background()

	rec := doJSON(t, router, token, http.MethodPost, "/projects/"+project.ID.String()+"/conversations", map[string]any{
		"title": "private",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Conversation models.Conversation `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	stranger, err := mem.Users().Create(ctx, "stranger@example.com", "hash")
	require.NoError(t, err)
	strangerToken, err := auth.CreateJWT(testSecret, stranger.Email)
	require.NoError(t, err)

	rec = doJSON(t, router, strangerToken, http.MethodGet, "/conversations/"+created.Conversation.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
