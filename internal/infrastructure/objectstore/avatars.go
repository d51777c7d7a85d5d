package objectstore

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/sample-social/pkg/helpers"
)

var ErrNotConfigured = errors.New("gcs not configured")

// AvatarStore uploads avatar images into a GCS bucket.
type AvatarStore struct {
	Client *storage.Client
	Bucket string
}

func NewAvatarStore(client *storage.Client, bucket string) *AvatarStore {
	return &AvatarStore{Client: client, Bucket: bucket}
}

// Put stores r under avatars/<userID>/ and returns its public URL.
func (s *AvatarStore) Put(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s == nil || s.Client == nil || s.Bucket == "" {
		return "", ErrNotConfigured
	}
	objectPath := helpers.AvatarObjectPath(userID, uuid.NewString(), filename)
	return helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, contentType, r)
}
