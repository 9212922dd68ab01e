// Package storetest provides an in-memory implementation of the store
// interfaces for tests. It mirrors the Postgres semantics the services rely
// on: sentinel errors, sibling-name uniqueness enforced at write time under a
// single lock, folders-first ordering, and subtree deletes that are all or
// nothing.
package storetest

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"project-workspaces/backend/internal/models"
	"project-workspaces/backend/internal/store"
)

type Memory struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*models.User
	projects      map[uuid.UUID]*models.Project
	files         map[uuid.UUID]*models.FileNode
	conversations map[uuid.UUID]*models.Conversation
	messages      []*models.Message
	seq           int64
}

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[uuid.UUID]*models.User),
		projects:      make(map[uuid.UUID]*models.Project),
		files:         make(map[uuid.UUID]*models.FileNode),
		conversations: make(map[uuid.UUID]*models.Conversation),
	}
}

// now returns a strictly increasing timestamp so ordering by updated_at is
// deterministic even within one test.
func (m *Memory) now() time.Time {
	m.seq++
	return time.Unix(0, m.seq*int64(time.Millisecond)).UTC()
}

// Each interface is exposed through a small wrapper so the method sets (all
// of which include Create) do not collide on Memory itself.

// --- UserStore ---

type UserStore struct{ *Memory }

func (m *Memory) Users() *UserStore { return &UserStore{m} }

func (u *UserStore) Create(ctx context.Context, email, passwordHash string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.users {
		if existing.Email == email {
			return nil, store.ErrDuplicateName
		}
	}
	now := u.now()
	user := &models.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	u.users[user.ID] = user
	return cloneUser(user), nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.users {
		if existing.Email == email {
			return cloneUser(existing), nil
		}
	}
	return nil, store.ErrNotFound
}

// --- ProjectStore ---

type ProjectStore struct{ *Memory }

func (m *Memory) Projects() *ProjectStore { return &ProjectStore{m} }

func (p *ProjectStore) Create(ctx context.Context, ownerID uuid.UUID, name string, settings json.RawMessage) (*models.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	project := &models.Project{ID: uuid.New(), OwnerID: ownerID, Name: name, Settings: settings, CreatedAt: now, UpdatedAt: now}
	p.projects[project.ID] = project
	return cloneProject(project), nil
}

func (p *ProjectStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*models.Project
	for _, pr := range p.projects {
		if pr.OwnerID == ownerID {
			out = append(out, cloneProject(pr))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (p *ProjectStore) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pr, ok := p.projects[id]
	if !ok || pr.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	return cloneProject(pr), nil
}

func (p *ProjectStore) Update(ctx context.Context, id uuid.UUID, name *string, settings json.RawMessage) (*models.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pr, ok := p.projects[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if name != nil {
		pr.Name = *name
	}
	if settings != nil {
		pr.Settings = settings
	}
	pr.UpdatedAt = p.now()
	return cloneProject(pr), nil
}

// --- FileStore ---

type FileStore struct{ *Memory }

func (m *Memory) Files() *FileStore { return &FileStore{m} }

func (f *FileStore) Create(ctx context.Context, node *models.FileNode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Check and insert happen under one lock, the in-memory stand-in for the
	// database unique constraint.
	if f.siblingExistsLocked(node.ProjectID, node.ParentID, node.Name, nil) {
		return store.ErrDuplicateName
	}
	now := f.now()
	node.ID = uuid.New()
	node.CreatedAt = now
	node.UpdatedAt = now
	f.files[node.ID] = cloneFile(node)
	return nil
}

func (f *FileStore) GetByID(ctx context.Context, id uuid.UUID) (*models.FileNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.files[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneFile(n), nil
}

func (f *FileStore) GetWithOwner(ctx context.Context, id uuid.UUID) (*models.FileNode, uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.files[id]
	if !ok {
		return nil, uuid.Nil, store.ErrNotFound
	}
	pr, ok := f.projects[n.ProjectID]
	if !ok {
		return nil, uuid.Nil, store.ErrNotFound
	}
	return cloneFile(n), pr.OwnerID, nil
}

func (f *FileStore) ListChildren(ctx context.Context, projectID uuid.UUID, parentID *uuid.UUID) ([]*models.FileNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.FileNode
	for _, n := range f.files {
		if n.ProjectID == projectID && sameParent(n.ParentID, parentID) {
			out = append(out, cloneFile(n))
		}
	}
	sortSiblings(out)
	return out, nil
}

func (f *FileStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.FileNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.FileNode
	for _, n := range f.files {
		if n.ProjectID == projectID {
			out = append(out, cloneFile(n))
		}
	}
	sortSiblings(out)
	return out, nil
}

func (f *FileStore) SiblingExists(ctx context.Context, projectID uuid.UUID, parentID *uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.siblingExistsLocked(projectID, parentID, name, excludeID), nil
}

func (f *FileStore) Update(ctx context.Context, id uuid.UUID, name *string, content *string) (*models.FileNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.files[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if name != nil && *name != n.Name {
		if f.siblingExistsLocked(n.ProjectID, n.ParentID, *name, &n.ID) {
			return nil, store.ErrDuplicateName
		}
		n.Name = *name
	}
	if content != nil {
		c := *content
		n.Content = &c
	}
	n.UpdatedAt = f.now()
	return cloneFile(n), nil
}

func (f *FileStore) DeleteSubtree(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[id]; !ok {
		return store.ErrNotFound
	}
	doomed := map[uuid.UUID]bool{id: true}
	for {
		grew := false
		for _, n := range f.files {
			if n.ParentID != nil && doomed[*n.ParentID] && !doomed[n.ID] {
				doomed[n.ID] = true
				grew = true
			}
		}
		if !grew {
			break
		}
	}
	for nodeID := range doomed {
		delete(f.files, nodeID)
	}
	return nil
}

func (f *FileStore) siblingExistsLocked(projectID uuid.UUID, parentID *uuid.UUID, name string, excludeID *uuid.UUID) bool {
	for _, n := range f.files {
		if excludeID != nil && n.ID == *excludeID {
			continue
		}
		if n.ProjectID == projectID && sameParent(n.ParentID, parentID) && n.Name == name {
			return true
		}
	}
	return false
}

// --- ConversationStore ---

type ConversationStore struct{ *Memory }

func (m *Memory) Conversations() *ConversationStore { return &ConversationStore{m} }

func (c *ConversationStore) Create(ctx context.Context, projectID uuid.UUID, title string) (*models.Conversation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	conv := &models.Conversation{ID: uuid.New(), ProjectID: projectID, Title: title, CreatedAt: now, UpdatedAt: now}
	c.conversations[conv.ID] = conv
	out := *conv
	return &out, nil
}

func (c *ConversationStore) GetWithOwner(ctx context.Context, id uuid.UUID) (*models.Conversation, uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conv, ok := c.conversations[id]
	if !ok {
		return nil, uuid.Nil, store.ErrNotFound
	}
	pr, ok := c.projects[conv.ProjectID]
	if !ok {
		return nil, uuid.Nil, store.ErrNotFound
	}
	out := *conv
	out.MessageCount = c.countMessagesLocked(id)
	return &out, pr.OwnerID, nil
}

func (c *ConversationStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Conversation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*models.Conversation
	for _, conv := range c.conversations {
		if conv.ProjectID == projectID {
			cp := *conv
			cp.MessageCount = c.countMessagesLocked(conv.ID)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (c *ConversationStore) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*models.Message
	for _, msg := range c.messages {
		if msg.ConversationID == conversationID {
			cp := *msg
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (c *ConversationStore) countMessagesLocked(conversationID uuid.UUID) int {
	count := 0
	for _, msg := range c.messages {
		if msg.ConversationID == conversationID {
			count++
		}
	}
	return count
}

// AddMessage seeds a message directly; the HTTP surface has no message
// creation endpoint.
func (m *Memory) AddMessage(conversationID uuid.UUID, role, content string) *models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      m.now(),
	}
	m.messages = append(m.messages, msg)
	return msg
}

var (
	_ store.UserStore         = (*UserStore)(nil)
	_ store.ProjectStore      = (*ProjectStore)(nil)
	_ store.FileStore         = (*FileStore)(nil)
	_ store.ConversationStore = (*ConversationStore)(nil)
)

// --- helpers ---

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sortSiblings(nodes []*models.FileNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Kind != nodes[j].Kind {
			return nodes[i].Kind == models.FileKindFolder
		}
		return strings.Compare(nodes[i].Name, nodes[j].Name) < 0
	})
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	return &cp
}

func cloneProject(p *models.Project) *models.Project {
	cp := *p
	cp.Files = nil
	cp.Conversations = nil
	return &cp
}

func cloneFile(n *models.FileNode) *models.FileNode {
	cp := *n
	cp.Children = nil
	if n.ParentID != nil {
		id := *n.ParentID
		cp.ParentID = &id
	}
	if n.Content != nil {
		c := *n.Content
		cp.Content = &c
	}
	return &cp
}
