package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/outlast-gg/arena/internal/model"
	"github.com/outlast-gg/arena/internal/testutil"
)

func TestPutAndList(t *testing.T) {
	store := New(testutil.NopLogger())

	store.Put(model.PlayerState{GamePlayerID: "gp-b", Username: "bob", Health: 80})
	store.Put(model.PlayerState{GamePlayerID: "gp-a", Username: "alice", Health: 100})

	states := store.List()
	assert.Len(t, states, 2)
	// Ordered by gamePlayerId
	assert.Equal(t, "gp-a", states[0].GamePlayerID)
	assert.Equal(t, "gp-b", states[1].GamePlayerID)
}

func TestPutReplacesPreviousSnapshot(t *testing.T) {
	store := New(testutil.NopLogger())

	store.Put(model.PlayerState{GamePlayerID: "gp-a", Health: 100, Position: model.Position{X: 1}})
	store.Put(model.PlayerState{GamePlayerID: "gp-a", Health: 40, Position: model.Position{X: 9}})

	states := store.List()
	assert.Len(t, states, 1)
	assert.Equal(t, 40, states[0].Health)
	assert.Equal(t, 9.0, states[0].Position.X)
}

func TestListEmpty(t *testing.T) {
	store := New(testutil.NopLogger())
	assert.Empty(t, store.List())
}
