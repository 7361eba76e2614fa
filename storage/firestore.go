package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rolebrief/backend/config"
	"github.com/rolebrief/backend/models"
)

const profilesCollection = "profiles"

// FirestoreStore persists profiles in Firestore, one document per session.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a Firestore-backed ProfileStore.
func NewFirestoreStore(ctx context.Context, cfg *config.Config) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreStore{client: client}, nil
}

// Close closes the Firestore client.
func (f *FirestoreStore) Close() error {
	return f.client.Close()
}

// Create stores a new profile, using the session ID as document ID.
func (f *FirestoreStore) Create(ctx context.Context, profile *models.JobProfile) error {
	docRef := f.client.Collection(profilesCollection).Doc(profile.SessionID)

	_, err := docRef.Get(ctx)
	if err == nil {
		return ErrAlreadyExists
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to check profile existence: %w", err)
	}

	if _, err := docRef.Set(ctx, profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Get retrieves the profile for a session.
func (f *FirestoreStore) Get(ctx context.Context, sessionID string) (*models.JobProfile, error) {
	doc, err := f.client.Collection(profilesCollection).Doc(sessionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile models.JobProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile data: %w", err)
	}

	profile.SessionID = doc.Ref.ID
	return &profile, nil
}

// Save overwrites the profile document. The engine serializes writes per
// session, so a full Set never loses a concurrent update.
func (f *FirestoreStore) Save(ctx context.Context, profile *models.JobProfile) error {
	docRef := f.client.Collection(profilesCollection).Doc(profile.SessionID)
	if _, err := docRef.Set(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// ListRecent returns up to limit profiles ordered by most recent update.
func (f *FirestoreStore) ListRecent(ctx context.Context, limit int) ([]*models.JobProfile, error) {
	if limit <= 0 {
		limit = 20
	}

	iter := f.client.Collection(profilesCollection).
		OrderBy("updatedAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var profiles []*models.JobProfile
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list profiles: %w", err)
		}

		var profile models.JobProfile
		if err := doc.DataTo(&profile); err != nil {
			return nil, fmt.Errorf("failed to parse profile data: %w", err)
		}
		profile.SessionID = doc.Ref.ID
		profiles = append(profiles, &profile)
	}

	return profiles, nil
}
