package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/rolebrief/backend/models"
)

// MemoryStore is an in-process ProfileStore. It is the default when no
// Firestore project is configured and the backing store for tests. Profiles
// are deep-cloned on the way in and out so callers never share state with the
// store.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*models.JobProfile
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*models.JobProfile)}
}

func (m *MemoryStore) Create(_ context.Context, profile *models.JobProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[profile.SessionID]; ok {
		return ErrAlreadyExists
	}
	m.profiles[profile.SessionID] = profile.Clone()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*models.JobProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profile, ok := m.profiles[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return profile.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, profile *models.JobProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[profile.SessionID] = profile.Clone()
	return nil
}

func (m *MemoryStore) ListRecent(_ context.Context, limit int) ([]*models.JobProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]*models.JobProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		profiles = append(profiles, p.Clone())
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].UpdatedAt.After(profiles[j].UpdatedAt)
	})

	if limit > 0 && len(profiles) > limit {
		profiles = profiles[:limit]
	}
	return profiles, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
