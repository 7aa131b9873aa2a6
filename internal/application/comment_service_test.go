package application

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/oksasatya/blogx-api/internal/domain/policy"
	mailtpl "github.com/oksasatya/blogx-api/pkg/mailer/templates"
)

func TestCommentLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner")
	reader := f.register(t, "reader")
	admin := f.admin(t)
	p := f.post(t, owner, "discuss", "")

	c, err := f.comments.Create(ctx, reader.Principal(), p.ID, "nice post")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Author == nil || c.Author.Username != "reader" || c.Comment.PostID != p.ID {
		t.Fatalf("unexpected view %+v", c)
	}
	// Owner commenting on their own post is not notified.
	if _, err := f.comments.Create(ctx, owner.Principal(), p.ID, "thanks"); err != nil {
		t.Fatalf("owner comment: %v", err)
	}
	jobs := f.notifier.templates()
	if n := len(slices.DeleteFunc(jobs, func(s string) bool { return s != mailtpl.NewComment })); n != 1 {
		t.Fatalf("expected one comment notification, got %d", n)
	}

	detail, err := f.posts.Get(ctx, p.ID)
	if err != nil || len(detail.Comments) != 2 || detail.Comments[0].Comment.ID != c.Comment.ID {
		t.Fatalf("detail: %v %+v", err, detail)
	}

	if err := f.comments.Delete(ctx, owner.Principal(), p.ID, c.Comment.ID); !errors.Is(err, policy.ErrNotAuthor) {
		t.Fatalf("post owner deleting foreign comment: %v", err)
	}
	if err := f.comments.Delete(ctx, admin.Principal(), p.ID, c.Comment.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	detail, _ = f.posts.Get(ctx, p.ID)
	if len(detail.Comments) != 1 || slices.Contains(detail.Post.CommentIDs, c.Comment.ID) {
		t.Fatalf("deleted comment still referenced: %v", detail.Post.CommentIDs)
	}
}

func TestCommentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.register(t, "ann")
	p := f.post(t, ann, "a", "")
	q := f.post(t, ann, "b", "")
	missing := "00000000-0000-0000-0000-000000000000"

	if _, err := f.comments.Create(ctx, ann.Principal(), "x", "hi"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("malformed post id: %v", err)
	}
	if _, err := f.comments.Create(ctx, ann.Principal(), p.ID, "   "); !errors.Is(err, ErrMissingField) {
		t.Fatalf("blank text: %v", err)
	}
	if _, err := f.comments.Create(ctx, ann.Principal(), missing, "hi"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("missing post: %v", err)
	}

	c, err := f.comments.Create(ctx, ann.Principal(), p.ID, "hi")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.comments.Delete(ctx, ann.Principal(), q.ID, c.Comment.ID); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("comment under the wrong post: %v", err)
	}
	if err := f.comments.Delete(ctx, ann.Principal(), p.ID, missing); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("missing comment: %v", err)
	}
	if err := f.comments.Delete(ctx, ann.Principal(), p.ID, c.Comment.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
}
