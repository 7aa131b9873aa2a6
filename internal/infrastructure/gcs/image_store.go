package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/blogx-api/pkg/helpers"
)

var errNotConfigured = errors.New("gcs not configured")

// ImageStore uploads post images and avatars into a single bucket.
type ImageStore struct {
	Client       *storage.Client
	Bucket       string
	Timeout      time.Duration
	CacheControl string
}

func NewImageStore(client *storage.Client, bucket string) *ImageStore {
	return &ImageStore{
		Client:       client,
		Bucket:       bucket,
		Timeout:      30 * time.Second,
		CacheControl: "public, max-age=86400",
	}
}

// Upload writes r to objectPath and returns its public URL. Object paths carry
// a fresh uuid, so existing objects are never overwritten.
func (s *ImageStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if s == nil || s.Client == nil || s.Bucket == "" {
		return "", errNotConfigured
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	obj := s.Client.Bucket(s.Bucket).Object(objectPath).If(storage.Conditions{DoesNotExist: true})
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = s.CacheControl
	w.ChunkSize = 0 // images are small; send in one request
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", objectPath, err)
	}
	return helpers.PublicURL(s.Bucket, objectPath), nil
}
