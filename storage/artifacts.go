package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/rolebrief/backend/config"
)

// ArtifactStore archives raw ingest material in Cloud Storage: pasted job
// descriptions and research provider reports. Artifacts are an audit trail,
// never read back by the engine.
type ArtifactStore struct {
	client     *storage.Client
	bucketName string
}

// NewArtifactStore creates a Cloud Storage client for artifact archiving.
func NewArtifactStore(ctx context.Context, cfg *config.Config) (*ArtifactStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud Storage client: %w", err)
	}

	return &ArtifactStore{
		client:     client,
		bucketName: cfg.ArtifactBucketName,
	}, nil
}

// Close closes the Cloud Storage client.
func (a *ArtifactStore) Close() error {
	return a.client.Close()
}

// SaveDocument archives a pasted document and returns its object URL.
func (a *ArtifactStore) SaveDocument(ctx context.Context, sessionID, text string) (string, error) {
	objectName := fmt.Sprintf("documents/%s/%d.txt", sanitizeSessionID(sessionID), time.Now().Unix())
	return a.write(ctx, objectName, "text/plain; charset=utf-8", []byte(text))
}

// SaveReport archives a provider report as JSON and returns its object URL.
func (a *ArtifactStore) SaveReport(ctx context.Context, sessionID, kind string, payload interface{}) (string, error) {
	content, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	objectName := fmt.Sprintf("reports/%s/%d_%s.json", sanitizeSessionID(sessionID), time.Now().Unix(), kind)
	return a.write(ctx, objectName, "application/json", content)
}

func (a *ArtifactStore) write(ctx context.Context, objectName, contentType string, content []byte) (string, error) {
	obj := a.client.Bucket(a.bucketName).Object(objectName)

	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(content); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", a.bucketName, objectName), nil
}

// sanitizeSessionID keeps object paths flat even if a caller-supplied session
// ID contains separators.
func sanitizeSessionID(sessionID string) string {
	s := strings.ReplaceAll(sessionID, "/", "_")
	return strings.ReplaceAll(s, "..", "_")
}
