package ownership_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-workspaces/backend/internal/apperr"
	"project-workspaces/backend/internal/models"
	"project-workspaces/backend/internal/ownership"
	"project-workspaces/backend/internal/store/storetest"
)

func setup(t *testing.T) (*storetest.Memory, *ownership.Resolver, *models.User, *models.Project) {
	t.Helper()
	ctx := context.Background()
	mem := storetest.NewMemory()

	owner, err := mem.Users().Create(ctx, "owner@example.com", "hash")
	require.NoError(t, err)
	project, err := mem.Projects().Create(ctx, owner.ID, "workspace", nil)
	require.NoError(t, err)

	resolver := ownership.NewResolver(mem.Users(), mem.Projects(), mem.Files(), mem.Conversations())
	return mem, resolver, owner, project
}

func TestResolveProjectForOwner(t *testing.T) {
	_, resolver, owner, project := setup(t)

	user, resolved, err := resolver.ResolveProject(context.Background(), project.ID, owner.Email)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, user.ID)
	assert.Equal(t, project.ID, resolved.ID)
}

func TestResolveProjectCollapsesForeignAndMissing(t *testing.T) {
	mem, resolver, owner, project := setup(t)
	ctx := context.Background()

	stranger, err := mem.Users().Create(ctx, "stranger@example.com", "hash")
	require.NoError(t, err)

	// Someone else's project and a nonexistent project produce the exact
	// same error, so existence cannot be probed.
	_, _, errForeign := resolver.ResolveProject(ctx, project.ID, stranger.Email)
	_, _, errMissing := resolver.ResolveProject(ctx, uuid.New(), owner.Email)

	require.Error(t, errForeign)
	require.Error(t, errMissing)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(errForeign))
	assert.Equal(t, errMissing.Error(), errForeign.Error())
}

func TestResolveProjectWithUnknownIdentity(t *testing.T) {
	_, resolver, _, project := setup(t)

	_, _, err := resolver.ResolveProject(context.Background(), project.ID, "ghost@example.com")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestResolveFileThroughProject(t *testing.T) {
	mem, resolver, owner, project := setup(t)
	ctx := context.Background()

	node := &models.FileNode{ProjectID: project.ID, Kind: models.FileKindFile, Name: "a.txt"}
	require.NoError(t, mem.Files().Create(ctx, node))

	_, resolved, err := resolver.ResolveFile(ctx, node.ID, owner.Email)
	require.NoError(t, err)
	assert.Equal(t, node.ID, resolved.ID)

	stranger, err := mem.Users().Create(ctx, "stranger@example.com", "hash")
	require.NoError(t, err)
	_, _, err = resolver.ResolveFile(ctx, node.ID, stranger.Email)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestResolveConversationThroughProject(t *testing.T) {
	mem, resolver, owner, project := setup(t)
	ctx := context.Background()

	conv, err := mem.Conversations().Create(ctx, project.ID, "design chat")
	require.NoError(t, err)
	mem.AddMessage(conv.ID, "user", "hello")

	_, resolved, err := resolver.ResolveConversation(ctx, conv.ID, owner.Email)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, resolved.ID)
	assert.Equal(t, 1, resolved.MessageCount)

	stranger, err := mem.Users().Create(ctx, "stranger@example.com", "hash")
	require.NoError(t, err)
	_, _, err = resolver.ResolveConversation(ctx, conv.ID, stranger.Email)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
