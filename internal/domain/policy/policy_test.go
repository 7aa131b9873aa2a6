package policy

import (
	"errors"
	"testing"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
)

var (
	owner   = entity.Principal{ID: "owner", Role: entity.RoleMember}
	other   = entity.Principal{ID: "other", Role: entity.RoleMember}
	admin   = entity.Principal{ID: "admin", Role: entity.RoleAdmin}
	blocked = entity.Principal{ID: "owner", Role: entity.RoleMember, Blocked: true}
	anon    = entity.Principal{}
)

func post(likes ...string) *entity.Post {
	return &entity.Post{ID: "p1", OwnerID: "owner", Likes: likes}
}

func TestAuthorize(t *testing.T) {
	memberAcct := &entity.Account{ID: "other", Role: entity.RoleMember}
	adminAcct := &entity.Account{ID: "admin2", Role: entity.RoleAdmin}
	comment := &entity.Comment{ID: "c1", PostID: "p1", AuthorID: "other"}

	tests := []struct {
		name   string
		p      entity.Principal
		action Action
		r      Resource
		want   *DenialError // nil means allowed
	}{
		{"anonymous create", anon, CreatePost, Resource{}, ErrUnauthenticated},
		{"member create post", owner, CreatePost, Resource{}, nil},
		{"member create comment", other, CreateComment, Resource{}, nil},
		{"blocked create post", blocked, CreatePost, Resource{}, ErrAccountBlocked},
		{"blocked like", blocked, LikePost, OnPost(post()), ErrAccountBlocked},
		{"owner update", owner, UpdatePost, OnPost(post()), nil},
		{"other update", other, UpdatePost, OnPost(post()), ErrNotOwner},
		{"admin update", admin, UpdatePost, OnPost(post()), nil},
		{"other delete", other, DeletePost, OnPost(post()), ErrNotOwner},
		{"admin delete", admin, DeletePost, OnPost(post()), nil},
		{"update without post", owner, UpdatePost, Resource{}, ErrMissingResource},
		{"author deletes comment", other, DeleteComment, OnComment(comment), nil},
		{"post owner deletes foreign comment", owner, DeleteComment, OnComment(comment), ErrNotAuthor},
		{"admin deletes comment", admin, DeleteComment, OnComment(comment), nil},
		{"first like", other, LikePost, OnPost(post()), nil},
		{"second like", other, LikePost, OnPost(post("other")), ErrAlreadyLiked},
		{"unlike not liked", other, UnlikePost, OnPost(post()), nil},
		{"self profile", other, UpdateProfile, OnAccount(memberAcct), nil},
		{"foreign profile", owner, UpdateProfile, OnAccount(memberAcct), ErrNotSelf},
		{"admin blocks member", admin, BlockAccount, OnAccount(memberAcct), nil},
		{"admin blocks admin", admin, BlockAccount, OnAccount(adminAcct), ErrCannotBlockAdmin},
		{"admin blocks self", admin, BlockAccount, OnAccount(&entity.Account{ID: "admin", Role: entity.RoleAdmin}), ErrCannotBlockAdmin},
		{"member blocks member", owner, BlockAccount, OnAccount(memberAcct), ErrAdminOnly},
		{"member blocks admin", owner, BlockAccount, OnAccount(adminAcct), ErrAdminOnly},
		{"admin unblocks", admin, UnblockAccount, OnAccount(memberAcct), nil},
		{"member unblocks", owner, UnblockAccount, OnAccount(memberAcct), ErrAdminOnly},
		{"admin deletes account", admin, DeleteAccount, OnAccount(memberAcct), nil},
		{"member deletes account", owner, DeleteAccount, OnAccount(memberAcct), ErrAdminOnly},
		{"admin lists accounts", admin, ListAccounts, Resource{}, nil},
		{"member lists accounts", owner, ListAccounts, Resource{}, ErrAdminOnly},
		{"admin lists posts", admin, ListAllPosts, Resource{}, nil},
		{"member lists all posts", owner, ListAllPosts, Resource{}, ErrAdminOnly},
		{"unknown action", admin, Action("post.archive"), OnPost(post()), ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.p, tt.action, tt.r)
			if tt.want == nil {
				if !d.Allowed || d.Err() != nil {
					t.Fatalf("expected allow, got %v", d.Reason)
				}
				return
			}
			if d.Allowed {
				t.Fatalf("expected %s, got allow", tt.want.Code)
			}
			if !errors.Is(d.Err(), tt.want) {
				t.Fatalf("expected %s, got %v", tt.want.Code, d.Reason)
			}
		})
	}
}

// Update and delete succeed iff the principal owns the post or is an admin.
func TestAuthorizeOwnershipProperty(t *testing.T) {
	principals := []entity.Principal{owner, other, admin, {ID: "admin-owner", Role: entity.RoleAdmin}}
	owners := []string{"owner", "other", "admin", "admin-owner", "nobody"}
	for _, p := range principals {
		for _, o := range owners {
			x := &entity.Post{ID: "p", OwnerID: o}
			want := p.ID == o || p.Role == entity.RoleAdmin
			for _, a := range []Action{UpdatePost, DeletePost} {
				if got := Authorize(p, a, OnPost(x)).Allowed; got != want {
					t.Errorf("%s %s on post of %s: allowed=%v want %v", p.ID, a, o, got, want)
				}
			}
		}
	}
}

// Block succeeds iff the principal is an admin and the target is not.
func TestAuthorizeBlockProperty(t *testing.T) {
	roles := []entity.Role{entity.RoleMember, entity.RoleAdmin}
	for _, pr := range roles {
		for _, tr := range roles {
			p := entity.Principal{ID: "p", Role: pr}
			target := &entity.Account{ID: "t", Role: tr}
			d := Authorize(p, BlockAccount, OnAccount(target))
			want := pr == entity.RoleAdmin && tr != entity.RoleAdmin
			if d.Allowed != want {
				t.Errorf("principal=%s target=%s: allowed=%v want %v", pr, tr, d.Allowed, want)
			}
			if pr == entity.RoleAdmin && tr == entity.RoleAdmin && d.Reason != ErrCannotBlockAdmin {
				t.Errorf("blocking an admin should yield cannot_block_admin, got %v", d.Reason)
			}
		}
	}
}

func TestAuthorizeIsDeterministic(t *testing.T) {
	x := post("other")
	first := Authorize(other, LikePost, OnPost(x))
	for i := 0; i < 10; i++ {
		if got := Authorize(other, LikePost, OnPost(x)); got != first {
			t.Fatalf("decision changed between calls: %+v vs %+v", got, first)
		}
	}
	if len(x.Likes) != 1 {
		t.Fatalf("authorize must not mutate the resource")
	}
}
