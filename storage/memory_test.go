package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolebrief/backend/models"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := models.NewJobProfile("s1")
	p.Company.Name = "Acme"
	require.NoError(t, store.Create(ctx, p))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Company.Name)

	// The store must hold its own copy.
	got.Company.Name = "Mutated"
	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.Company.Name)
}

func TestMemoryStoreCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Create(ctx, models.NewJobProfile("s1")))
	err := store.Create(ctx, models.NewJobProfile("s1"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := models.NewJobProfile("s1")
	require.NoError(t, store.Create(ctx, p))

	p.Requirements.JobTitle = "Platform Engineer"
	require.NoError(t, store.Save(ctx, p))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineer", got.Requirements.JobTitle)
}

func TestMemoryStoreListRecent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		p := models.NewJobProfile(id)
		p.UpdatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Save(ctx, p))
	}

	profiles, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "new", profiles[0].SessionID)
	assert.Equal(t, "mid", profiles[1].SessionID)
}

func TestMemoryStoreListRecentNoLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, models.NewJobProfile("s1")))

	profiles, err := store.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}
