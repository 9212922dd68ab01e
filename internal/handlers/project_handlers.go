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

type ProjectHandler struct {
	resolver      *ownership.Resolver
	projects      store.ProjectStore
	files         store.FileStore
	conversations store.ConversationStore
	logger        *zap.Logger
}

func NewProjectHandler(resolver *ownership.Resolver, projects store.ProjectStore, files store.FileStore, conversations store.ConversationStore, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		resolver:      resolver,
		projects:      projects,
		files:         files,
		conversations: conversations,
		logger:        logger,
	}
}

// List handles GET /projects, most recently updated first.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := h.resolver.ResolveUser(r.Context(), middleware.UserEmail(r.Context()))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	projects, err := h.projects.ListByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(h.logger, w, apperr.Internal("failed to list projects", err))
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

type createProjectRequest struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Settings json.RawMessage `json:"settings"`
}

// Create handles POST /projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "project name must be 1 to 100 characters")
		return
	}

	user, err := h.resolver.ResolveUser(r.Context(), middleware.UserEmail(r.Context()))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	project, err := h.projects.Create(r.Context(), user.ID, req.Name, req.Settings)
	if err != nil {
		writeError(h.logger, w, apperr.Internal("failed to create project", err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Project created successfully",
		"project": project,
	})
}

// Get handles GET /projects/{projectId}, returning the project with its files
// and conversations.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectId"))
	if err != nil {
		writeBadRequest(w, "invalid project ID")
		return
	}

	_, project, err := h.resolver.ResolveProject(r.Context(), projectID, middleware.UserEmail(r.Context()))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	files, err := h.files.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(h.logger, w, apperr.Internal("failed to list project files", err))
		return
	}
	conversations, err := h.conversations.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(h.logger, w, apperr.Internal("failed to list project conversations", err))
		return
	}
	project.Files = files
	project.Conversations = conversations

	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

type updateProjectRequest struct {
	Name     *string         `json:"name" validate:"omitempty,min=1,max=100"`
	Settings json.RawMessage `json:"settings"`
}

// Update handles PATCH /projects/{projectId}; only supplied fields change.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectId"))
	if err != nil {
		writeBadRequest(w, "invalid project ID")
		return
	}

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "project name must be 1 to 100 characters")
		return
	}

	if _, _, err := h.resolver.ResolveProject(r.Context(), projectID, middleware.UserEmail(r.Context())); err != nil {
		writeError(h.logger, w, err)
		return
	}

	project, err := h.projects.Update(r.Context(), projectID, req.Name, req.Settings)
	if err != nil {
		writeError(h.logger, w, apperr.Internal("failed to update project", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Project updated successfully",
		"project": project,
	})
}
