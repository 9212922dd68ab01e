package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-workspaces/backend/internal/hierarchy"
	"project-workspaces/backend/internal/middleware"
	"project-workspaces/backend/internal/models"
)

type FileHandler struct {
	manager *hierarchy.Manager
	logger  *zap.Logger
}

func NewFileHandler(manager *hierarchy.Manager, logger *zap.Logger) *FileHandler {
	return &FileHandler{manager: manager, logger: logger}
}

// List handles GET /projects/{projectId}/files?parentId=. An absent parentId
// lists the project root, not the whole project.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectId"))
	if err != nil {
		writeBadRequest(w, "invalid project ID")
		return
	}

	var parentID *uuid.UUID
	if raw := r.URL.Query().Get("parentId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeBadRequest(w, "invalid parent ID")
			return
		}
		parentID = &parsed
	}

	files, err := h.manager.List(r.Context(), projectID, parentID, middleware.UserEmail(r.Context()))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	if files == nil {
		files = []*models.FileNode{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

type createFileRequest struct {
	Name     string     `json:"name" validate:"required,max=255"`
	Kind     string     `json:"kind" validate:"required,oneof=file folder"`
	Content  *string    `json:"content"`
	ParentID *uuid.UUID `json:"parentId"`
}

// Create handles POST /projects/{projectId}/files.
func (h *FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectId"))
	if err != nil {
		writeBadRequest(w, "invalid project ID")
		return
	}

	var req createFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "name (1 to 255 characters) and kind ('file' or 'folder') are required")
		return
	}

	node, err := h.manager.Create(r.Context(), projectID, hierarchy.CreateInput{
		Name:     req.Name,
		Kind:     models.FileKind(req.Kind),
		Content:  req.Content,
		ParentID: req.ParentID,
	}, middleware.UserEmail(r.Context()))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	message := "File created successfully"
	if node.Kind == models.FileKindFolder {
		message = "Folder created successfully"
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": message, "file": node})
}

// Get handles GET /files/{fileId}, returning the node with its direct
// children.
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(chi.URLParam(r, "fileId"))
	if err != nil {
		writeBadRequest(w, "invalid file ID")
		return
	}

	node, err := h.manager.Get(r.Context(), fileID, middleware.UserEmail(r.Context()))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"file": node})
}

// Path handles GET /files/{fileId}/path, returning the breadcrumb from the
// root down to the node.
func (h *FileHandler) Path(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(chi.URLParam(r, "fileId"))
	if err != nil {
		writeBadRequest(w, "invalid file ID")
		return
	}

	path, err := h.manager.Path(r.Context(), fileID, middleware.UserEmail(r.Context()))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": path})
}

// Update handles PATCH /files/{fileId} for renames and content updates.
func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(chi.URLParam(r, "fileId"))
	if err != nil {
		writeBadRequest(w, "invalid file ID")
		return
	}

	var input hierarchy.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	node, err := h.manager.Update(r.Context(), fileID, input, middleware.UserEmail(r.Context()))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "File updated successfully", "file": node})
}

// Delete handles DELETE /files/{fileId}; the whole subtree goes with it.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(chi.URLParam(r, "fileId"))
	if err != nil {
		writeBadRequest(w, "invalid file ID")
		return
	}

	if err := h.manager.Delete(r.Context(), fileID, middleware.UserEmail(r.Context())); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully"})
}
