package storage

import (
	"context"
	"errors"

	"github.com/rolebrief/backend/models"
)

// ErrNotFound is returned when no profile exists for the session.
var ErrNotFound = errors.New("profile not found")

// ErrAlreadyExists is returned when creating a profile for a session that
// already has one.
var ErrAlreadyExists = errors.New("profile already exists")

// ProfileStore persists job profiles keyed by session ID. Implementations must
// be safe for concurrent use; callers serialize writes per session, so Save
// may overwrite the whole document.
type ProfileStore interface {
	Create(ctx context.Context, profile *models.JobProfile) error
	Get(ctx context.Context, sessionID string) (*models.JobProfile, error)
	Save(ctx context.Context, profile *models.JobProfile) error
	ListRecent(ctx context.Context, limit int) ([]*models.JobProfile, error)
	Close() error
}
