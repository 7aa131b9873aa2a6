package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogx-api/internal/domain/entity"
	"github.com/oksasatya/blogx-api/internal/domain/policy"
	repo "github.com/oksasatya/blogx-api/internal/domain/repository"
	"github.com/oksasatya/blogx-api/pkg/mailer"
	mailtpl "github.com/oksasatya/blogx-api/pkg/mailer/templates"
)

type CommentService struct {
	Posts    repo.PostRepository
	Comments repo.CommentRepository
	Accounts repo.AccountRepository
	Notifier Notifier
	Logger   *logrus.Logger
}

func NewCommentService(posts repo.PostRepository, comments repo.CommentRepository, accounts repo.AccountRepository, logger *logrus.Logger) *CommentService {
	return &CommentService{Posts: posts, Comments: comments, Accounts: accounts, Logger: logger}
}

// Create attaches a comment to a post and tells the post owner about it.
func (s *CommentService) Create(ctx context.Context, p entity.Principal, postID, text string) (*CommentView, error) {
	if !validID(postID) {
		return nil, ErrInvalidID
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text", ErrMissingField)
	}
	if err := policy.Authorize(p, policy.CreateComment, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	post, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	c := &entity.Comment{PostID: post.ID, AuthorID: p.ID, Text: text}
	if err := s.Comments.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	metricComments.Add(1)

	view := &CommentView{Comment: c}
	author, err := s.Accounts.GetByID(ctx, p.ID)
	if err == nil {
		view.Author = &AccountSummary{ID: author.ID, Username: author.Username, AvatarURL: author.AvatarURL}
	}
	if post.OwnerID != p.ID {
		s.notifyOwner(ctx, post, view)
	}
	return view, nil
}

// Delete removes a comment and its reference from the parent post. The
// comment must belong to postID.
func (s *CommentService) Delete(ctx context.Context, p entity.Principal, postID, commentID string) error {
	if !validID(postID) || !validID(commentID) {
		return ErrInvalidID
	}
	c, err := s.Comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if c.PostID != postID {
		return ErrCommentNotFound
	}
	if err := policy.Authorize(p, policy.DeleteComment, policy.OnComment(c)).Err(); err != nil {
		return err
	}
	if err := s.Comments.Delete(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}

func (s *CommentService) notifyOwner(ctx context.Context, post *entity.Post, c *CommentView) {
	if s.Notifier == nil {
		return
	}
	owner, err := s.Accounts.GetByID(ctx, post.OwnerID)
	if err != nil {
		return
	}
	commenter := ""
	if c.Author != nil {
		commenter = c.Author.Username
	}
	job := mailer.EmailJob{
		To:       owner.Email,
		Template: mailtpl.NewComment,
		Data:     mailtpl.NewCommentData(owner.Username, owner.Email, post.ID, post.Title, commenter, c.Comment.Text),
	}
	if err := s.Notifier.Notify(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("post_id", post.ID).Warn("comment notification publish failed")
	}
}
