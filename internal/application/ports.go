package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/pkg/mailer"
)

// ImageStore is the object-storage collaborator. Upload returns the public
// reference URL of the stored object.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// FederatedIdentity is a verified third-party account assertion.
type FederatedIdentity struct {
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

// IdentityVerifier checks a federated identity assertion (e.g. a Google ID token).
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*FederatedIdentity, error)
}

// SessionStore tracks the single active session of each account.
type SessionStore interface {
	Save(ctx context.Context, accountID, sessionID string, role entity.Role, ttl time.Duration) error
	Valid(ctx context.Context, accountID, sessionID string) (bool, error)
	Delete(ctx context.Context, accountID string) error
}

// Notifier hands notification jobs to the delivery pipeline.
type Notifier interface {
	Notify(ctx context.Context, job mailer.EmailJob) error
}

// PostIndexer maintains the full-text post index.
type PostIndexer interface {
	Index(ctx context.Context, p *entity.Post) error
	Remove(ctx context.Context, postID string) error
	// Search returns matching post ids ordered by relevance.
	Search(ctx context.Context, query string, size int) ([]string, error)
}
