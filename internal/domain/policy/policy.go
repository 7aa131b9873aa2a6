// Package policy is the authorization engine. Authorize is a pure function of
// its inputs: it never touches storage, clocks or request state.
package policy

import (
	"github.com/oksasatya/blogx-api/internal/domain/entity"
)

type Action string

const (
	CreatePost     Action = "post.create"
	UpdatePost     Action = "post.update"
	DeletePost     Action = "post.delete"
	LikePost       Action = "post.like"
	UnlikePost     Action = "post.unlike"
	ListAllPosts   Action = "post.list_all"
	CreateComment  Action = "comment.create"
	DeleteComment  Action = "comment.delete"
	UpdateProfile  Action = "account.update_profile"
	BlockAccount   Action = "account.block"
	UnblockAccount Action = "account.unblock"
	DeleteAccount  Action = "account.delete"
	ListAccounts   Action = "account.list"
)

// Resource is the target of an action. Only the field relevant to the action is read.
type Resource struct {
	Post    *entity.Post
	Comment *entity.Comment
	Account *entity.Account
}

func OnPost(p *entity.Post) Resource       { return Resource{Post: p} }
func OnComment(c *entity.Comment) Resource { return Resource{Comment: c} }
func OnAccount(a *entity.Account) Resource { return Resource{Account: a} }

// Decision is either Allow or a denial carrying its reason.
type Decision struct {
	Allowed bool
	Reason  *DenialError
}

func allow() Decision                   { return Decision{Allowed: true} }
func deny(reason *DenialError) Decision { return Decision{Reason: reason} }

// Err returns nil for an allowed decision and the denial reason otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return d.Reason
}

// Authorize decides whether principal may perform action on resource.
func Authorize(p entity.Principal, action Action, r Resource) Decision {
	if p.Anonymous() {
		return deny(ErrUnauthenticated)
	}
	if p.Blocked {
		return deny(ErrAccountBlocked)
	}

	switch action {
	case CreatePost, CreateComment:
		return allow()

	case UpdatePost, DeletePost:
		if r.Post == nil {
			return deny(ErrMissingResource)
		}
		if p.ID == r.Post.OwnerID || p.IsAdmin() {
			return allow()
		}
		return deny(ErrNotOwner)

	case DeleteComment:
		if r.Comment == nil {
			return deny(ErrMissingResource)
		}
		if p.ID == r.Comment.AuthorID || p.IsAdmin() {
			return allow()
		}
		return deny(ErrNotAuthor)

	case LikePost:
		if r.Post == nil {
			return deny(ErrMissingResource)
		}
		if r.Post.LikedBy(p.ID) {
			return deny(ErrAlreadyLiked)
		}
		return allow()

	case UnlikePost:
		if r.Post == nil {
			return deny(ErrMissingResource)
		}
		return allow()

	case UpdateProfile:
		if r.Account == nil {
			return deny(ErrMissingResource)
		}
		if p.ID == r.Account.ID {
			return allow()
		}
		return deny(ErrNotSelf)

	case BlockAccount:
		if !p.IsAdmin() {
			return deny(ErrAdminOnly)
		}
		if r.Account == nil {
			return deny(ErrMissingResource)
		}
		// Admins are never blocked, which also rules out self-blocking.
		if r.Account.Role.IsAdmin() {
			return deny(ErrCannotBlockAdmin)
		}
		return allow()

	case UnblockAccount, DeleteAccount:
		if !p.IsAdmin() {
			return deny(ErrAdminOnly)
		}
		if r.Account == nil {
			return deny(ErrMissingResource)
		}
		return allow()

	case ListAccounts, ListAllPosts:
		if !p.IsAdmin() {
			return deny(ErrAdminOnly)
		}
		return allow()
	}

	return deny(ErrUnknownAction)
}
