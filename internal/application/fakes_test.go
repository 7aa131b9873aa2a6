package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/internal/infrastructure/memory"
	"github.com/oksasatya/blogx-api/pkg/helpers"
	"github.com/oksasatya/blogx-api/pkg/mailer"
)

type fakeSessions struct {
	mu      sync.Mutex
	sids    map[string]string
	saveErr error
}

func newFakeSessions() *fakeSessions { return &fakeSessions{sids: map[string]string{}} }

func (f *fakeSessions) Save(_ context.Context, accountID, sessionID string, _ entity.Role, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sids[accountID] = sessionID
	return nil
}

func (f *fakeSessions) Valid(_ context.Context, accountID, sessionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sids[accountID] == sessionID, nil
}

func (f *fakeSessions) Delete(_ context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sids, accountID)
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, job mailer.EmailJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return f.err
}

func (f *fakeNotifier) templates() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, j.Template)
	}
	return out
}

type fakeIdentity struct {
	id  *FederatedIdentity
	err error
}

func (f fakeIdentity) Verify(context.Context, string) (*FederatedIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.id
	return &cp, nil
}

type fakeImages struct {
	paths []string
	err   error
}

func (f *fakeImages) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.paths = append(f.paths, objectPath)
	return "https://cdn.test/" + objectPath, nil
}

type fakeIndex struct {
	hits    []string
	err     error
	indexed map[string]bool
}

func (f *fakeIndex) Index(_ context.Context, p *entity.Post) error {
	if f.indexed == nil {
		f.indexed = map[string]bool{}
	}
	f.indexed[p.ID] = true
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	delete(f.indexed, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int) ([]string, error) {
	return f.hits, f.err
}

var errBoom = errors.New("boom")

// fixture wires the three services over one memory store.
type fixture struct {
	store    *memory.Store
	accounts *AccountService
	posts    *PostService
	comments *CommentService
	sessions *fakeSessions
	notifier *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	logger := helpers.NewDiscardLogger()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	f := &fixture{store: store, sessions: newFakeSessions(), notifier: &fakeNotifier{}}
	f.accounts = NewAccountService(store.Accounts(), jwt, logger)
	f.accounts.Sessions = f.sessions
	f.accounts.Notifier = f.notifier
	f.posts = NewPostService(store.Posts(), store.Comments(), store.Accounts(), logger)
	f.comments = NewCommentService(store.Posts(), store.Comments(), store.Accounts(), logger)
	f.comments.Notifier = f.notifier
	return f
}

func (f *fixture) register(t *testing.T, name string) *entity.Account {
	t.Helper()
	res, err := f.accounts.Register(context.Background(), RegisterInput{Username: name, Email: name + "@blog.test", Password: "secret123"})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return res.Account
}

func (f *fixture) admin(t *testing.T) *entity.Account {
	t.Helper()
	a := &entity.Account{Username: "admin", Email: "admin@blog.test", Role: entity.RoleAdmin}
	if err := f.store.Accounts().Create(context.Background(), a); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return a
}

func (f *fixture) post(t *testing.T, owner *entity.Account, title, category string) *entity.Post {
	t.Helper()
	v, err := f.posts.Create(context.Background(), owner.Principal(), PostInput{Title: title, Content: "content", Category: category}, nil)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return v.Post
}
