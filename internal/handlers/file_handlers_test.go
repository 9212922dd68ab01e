package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-workspaces/backend/internal/auth"
	"project-workspaces/backend/internal/handlers"
	"project-workspaces/backend/internal/hierarchy"
	"project-workspaces/backend/internal/middleware"
	"project-workspaces/backend/internal/models"
	"project-workspaces/backend/internal/ownership"
	"project-workspaces/backend/internal/store/storetest"
)

const testSecret = "test-secret"

type env struct {
	router  *chi.Mux
	mem     *storetest.Memory
	project *models.Project
	token   string
}

func newEnv(t *testing.T) *env {
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
	manager := hierarchy.NewManager(resolver, mem.Files())
	fileHandler := handlers.NewFileHandler(manager, zap.NewNop())

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(testSecret))
		r.Get("/projects/{projectId}/files", fileHandler.List)
		r.Post("/projects/{projectId}/files", fileHandler.Create)
		r.Get("/files/{fileId}", fileHandler.Get)
		r.Get("/files/{fileId}/path", fileHandler.Path)
		r.Patch("/files/{fileId}", fileHandler.Update)
		r.Delete("/files/{fileId}", fileHandler.Delete)
	})

	return &env{router: r, mem: mem, project: project, token: token}
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeFile(t *testing.T, rec *httptest.ResponseRecorder) models.FileNode {
	t.Helper()
	var resp struct {
		File models.FileNode `json:"file"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.File
}

func TestCreateAndGetFileOverHTTP(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/projects/"+e.project.ID.String()+"/files", map[string]any{
		"name": "src", "kind": "folder",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	folder := decodeFile(t, rec)
	assert.Equal(t, models.FileKindFolder, folder.Kind)

	rec = e.do(t, http.MethodPost, "/projects/"+e.project.ID.String()+"/files", map[string]any{
		"name": "main.go", "kind": "file", "parentId": folder.ID, "content": "package main",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	file := decodeFile(t, rec)

	rec = e.do(t, http.MethodGet, "/files/"+file.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeFile(t, rec)
	assert.Equal(t, "main.go", got.Name)
	require.NotNil(t, got.Content)
	assert.Equal(t, "package main", *got.Content)
}

func TestCreateDuplicateReturns409(t *testing.T) {
	e := newEnv(t)
	body := map[string]any{"name": "a.txt", "kind": "file"}

	rec := e.do(t, http.MethodPost, "/projects/"+e.project.ID.String()+"/files", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPost, "/projects/"+e.project.ID.String()+"/files", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateWithFileParentReturns400(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/projects/"+e.project.ID.String()+"/files", map[string]any{
		"name": "a.txt", "kind": "file",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	parent := decodeFile(t, rec)

	rec = e.do(t, http.MethodPost, "/projects/"+e.project.ID.String()+"/files", map[string]any{
		"name": "b.txt", "kind": "file", "parentId": parent.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateWithBadKindReturns400(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/projects/"+e.project.ID.String()+"/files", map[string]any{
		"name": "a.txt", "kind": "symlink",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRootOverHTTP(t *testing.T) {
	e := newEnv(t)
	for _, body := range []map[string]any{
		{"name": "b.txt", "kind": "file"},
		{"name": "a", "kind": "folder"},
	} {
		rec := e.do(t, http.MethodPost, "/projects/"+e.project.ID.String()+"/files", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := e.do(t, http.MethodGet, "/projects/"+e.project.ID.String()+"/files", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Files []models.FileNode `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Files, 2)
	assert.Equal(t, "a", resp.Files[0].Name)
	assert.Equal(t, "b.txt", resp.Files[1].Name)
}

func TestPathOverHTTP(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/projects/"+e.project.ID.String()+"/files", map[string]any{
		"name": "src", "kind": "folder",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	src := decodeFile(t, rec)

	rec = e.do(t, http.MethodPost, "/projects/"+e.project.ID.String()+"/files", map[string]any{
		"name": "main", "kind": "file", "parentId": src.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	main := decodeFile(t, rec)

	rec = e.do(t, http.MethodGet, "/files/"+main.ID.String()+"/path", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Path []hierarchy.PathEntry `json:"path"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Path, 2)
	assert.Equal(t, "src", resp.Path[0].Name)
	assert.Equal(t, "main", resp.Path[1].Name)
}

func TestUpdatePartialOverHTTP(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/projects/"+e.project.ID.String()+"/files", map[string]any{
		"name": "a.txt", "kind": "file", "content": "v1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	file := decodeFile(t, rec)

	rec = e.do(t, http.MethodPatch, "/files/"+file.ID.String(), map[string]any{"content": "v2"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeFile(t, rec)
	assert.Equal(t, "a.txt", updated.Name)
	require.NotNil(t, updated.Content)
	assert.Equal(t, "v2", *updated.Content)

	// Explicit null is not a valid clear.
	req := httptest.NewRequest(http.MethodPatch, "/files/"+file.ID.String(), bytes.NewBufferString(`{"name":null}`))
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec2 := httptest.NewRecorder()
	e.router.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestDeleteOverHTTP(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/projects/"+e.project.ID.String()+"/files", map[string]any{
		"name": "a.txt", "kind": "file",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	file := decodeFile(t, rec)

	rec = e.do(t, http.MethodDelete, "/files/"+file.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/files/"+file.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestForeignUserSeesNotFound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rec := e.do(t, http.MethodPost, "/projects/"+e.project.ID.String()+"/files", map[string]any{
		"name": "secret.txt", "kind": "file",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	file := decodeFile(t, rec)

	stranger, err := e.mem.Users().Create(ctx, "stranger@example.com", "hash")
	require.NoError(t, err)
	strangerToken, err := auth.CreateJWT(testSecret, stranger.Email)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/files/"+file.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+strangerToken)
	rec2 := httptest.NewRecorder()
	e.router.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusNotFound, rec2.Code)
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/projects/%s/files", e.project.ID), nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
