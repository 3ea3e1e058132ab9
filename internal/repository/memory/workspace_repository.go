package memory

import (
	"time"

	"ai-scribe-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// WorkspaceRepository keeps each user's working state (active selection,
// draft buffer, sampling config) in process memory. Nothing here survives a
// restart; durable state lives in the activities table.
type WorkspaceRepository struct {
	cache *cache.Cache
}

func NewWorkspaceRepository() *WorkspaceRepository {
	// Default expiration of 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &WorkspaceRepository{
		cache: c,
	}
}

// Save stores a copy of the workspace. Callers keep exclusive ownership of
// the pointer they passed in.
func (r *WorkspaceRepository) Save(ws *store.Workspace) {
	r.cache.Set(ws.UserID, cloneWorkspace(ws), cache.DefaultExpiration)
}

// Get returns a copy of the stored workspace. Request handlers and the
// generation goroutine mutate concurrently; handing each caller its own copy
// keeps those mutations invisible until the caller saves them back.
func (r *WorkspaceRepository) Get(userID string) (*store.Workspace, bool) {
	if x, found := r.cache.Get(userID); found {
		return cloneWorkspace(x.(*store.Workspace)), true
	}
	return nil, false
}

func (r *WorkspaceRepository) Delete(userID string) {
	r.cache.Delete(userID)
}

func cloneWorkspace(ws *store.Workspace) *store.Workspace {
	c := *ws
	c.Buffer = append([]store.Message(nil), ws.Buffer...)
	return &c
}
