package memory

import (
	"sync"
	"testing"

	"ai-scribe-be/internal/constant"
	"ai-scribe-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestWorkspaceRepositoryRoundTrip(t *testing.T) {
	repo := NewWorkspaceRepository()

	ws := &store.Workspace{
		UserID:           "user-1",
		ActiveActivityID: "act-1",
		ActivityType:     constant.ActivityTypeSessionNote,
		Sampling:         constant.DefaultSamplingFor(constant.ActivityTypeSessionNote),
	}
	ws.AppendMessage(constant.MessageRoleUser, "draft text")
	repo.Save(ws)

	got, found := repo.Get("user-1")
	assert.True(t, found)
	assert.Equal(t, "act-1", got.ActiveActivityID)
	assert.Len(t, got.Buffer, 1)
}

func TestWorkspaceRepositoryIsolatesCallers(t *testing.T) {
	repo := NewWorkspaceRepository()

	ws := &store.Workspace{
		UserID:           "user-1",
		ActiveActivityID: "act-1",
		Sampling:         constant.DefaultSamplingFor(constant.ActivityTypeSessionNote),
	}
	ws.AppendMessage(constant.MessageRoleUser, "first draft")
	repo.Save(ws)

	// Mutations on one caller's copy never leak into another's until saved
	a, _ := repo.Get("user-1")
	b, _ := repo.Get("user-1")
	a.AppendMessage(constant.MessageRoleAssistant, "reply")
	a.Sampling.Temperature = 1.9

	assert.Len(t, b.Buffer, 1)
	assert.NotEqual(t, 1.9, b.Sampling.Temperature)

	fresh, _ := repo.Get("user-1")
	assert.Len(t, fresh.Buffer, 1)

	// Saving publishes the mutation; mutating after Save does not
	repo.Save(a)
	a.ClearBuffer()
	fresh, _ = repo.Get("user-1")
	assert.Len(t, fresh.Buffer, 2)
	assert.Equal(t, 1.9, fresh.Sampling.Temperature)
}

func TestWorkspaceRepositoryConcurrentAccess(t *testing.T) {
	repo := NewWorkspaceRepository()
	repo.Save(&store.Workspace{UserID: "user-1", ActiveActivityID: "act-1"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				ws, ok := repo.Get("user-1")
				if !ok {
					continue
				}
				ws.AppendMessage(constant.MessageRoleUser, "turn")
				repo.Save(ws)
			}
		}()
	}
	wg.Wait()

	ws, found := repo.Get("user-1")
	assert.True(t, found)
	assert.Equal(t, "act-1", ws.ActiveActivityID)
}

func TestWorkspaceRepositoryMissingUser(t *testing.T) {
	repo := NewWorkspaceRepository()

	got, found := repo.Get("nobody")
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestWorkspaceRepositoryDelete(t *testing.T) {
	repo := NewWorkspaceRepository()
	repo.Save(&store.Workspace{UserID: "user-1"})

	repo.Delete("user-1")
	_, found := repo.Get("user-1")
	assert.False(t, found)

	// Deleting again is a no-op
	repo.Delete("user-1")
}
