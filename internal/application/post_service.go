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
)

const searchSize = 20

// AccountSummary is the public projection of an account attached to posts and comments.
type AccountSummary struct {
	ID        string
	Username  string
	AvatarURL string
}

// PostView is a post with its owner resolved. Owner is nil when the owning
// account no longer exists.
type PostView struct {
	Post  *entity.Post
	Owner *AccountSummary
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	Comment *entity.Comment
	Author  *AccountSummary
}

// PostDetail is a single post with its comments in insertion order.
type PostDetail struct {
	PostView
	Comments []CommentView
}

type PostService struct {
	Posts    repo.PostRepository
	Comments repo.CommentRepository
	Accounts repo.AccountRepository
	Images   ImageStore
	Index    PostIndexer
	Logger   *logrus.Logger
}

func NewPostService(posts repo.PostRepository, comments repo.CommentRepository, accounts repo.AccountRepository, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Comments: comments, Accounts: accounts, Logger: logger}
}

// PostInput carries post fields. On update empty strings and a nil Tags keep
// the current values.
type PostInput struct {
	Title    string
	Content  string
	Category string
	Tags     []string
}

func (s *PostService) Create(ctx context.Context, p entity.Principal, in PostInput, image *ImageUpload) (*PostView, error) {
	if err := policy.Authorize(p, policy.CreatePost, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: title and content", ErrMissingField)
	}
	post := &entity.Post{
		Title:    in.Title,
		Content:  in.Content,
		OwnerID:  p.ID,
		Category: strings.TrimSpace(in.Category),
		Tags:     in.Tags,
	}
	if image != nil {
		url, err := uploadImage(ctx, s.Images, "posts", p.ID, image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = url
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if err := s.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	metricPostsCreated.Add(1)
	s.index(ctx, post)
	return s.view(ctx, post, nil), nil
}

// List returns all posts newest first, narrowed by f.
func (s *PostService) List(ctx context.Context, f entity.PostFilter) ([]PostView, error) {
	f.Keyword = strings.TrimSpace(f.Keyword)
	posts, err := s.Posts.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, posts), nil
}

// AdminList is List restricted to administrators.
func (s *PostService) AdminList(ctx context.Context, p entity.Principal) ([]PostView, error) {
	if err := policy.Authorize(p, policy.ListAllPosts, policy.Resource{}).Err(); err != nil {
		return nil, err
	}
	return s.List(ctx, entity.PostFilter{})
}

func (s *PostService) ListByOwner(ctx context.Context, ownerID string) ([]PostView, error) {
	if !validID(ownerID) {
		return nil, ErrInvalidID
	}
	posts, err := s.Posts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, posts), nil
}

// Search runs a full-text query against the post index and loads the hits in
// relevance order. Hits whose post has since been deleted are skipped.
func (s *PostService) Search(ctx context.Context, query string) ([]PostView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: q", ErrMissingField)
	}
	if s.Index == nil {
		return nil, ErrSearchUnavailable
	}
	ids, err := s.Index.Search(ctx, query, searchSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	posts := make([]*entity.Post, 0, len(ids))
	for _, id := range ids {
		p, err := s.Posts.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return nil, err
		}
		posts = append(posts, p)
	}
	return s.views(ctx, posts), nil
}

// Get returns a post with its owner and its comments populated.
func (s *PostService) Get(ctx context.Context, id string) (*PostDetail, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.Comments.ListByIDs(ctx, post.CommentIDs)
	if err != nil {
		return nil, err
	}
	cache := map[string]*AccountSummary{}
	detail := &PostDetail{PostView: *s.view(ctx, post, cache), Comments: make([]CommentView, 0, len(comments))}
	for _, c := range comments {
		detail.Comments = append(detail.Comments, CommentView{Comment: c, Author: s.summary(ctx, c.AuthorID, cache)})
	}
	return detail, nil
}

func (s *PostService) Update(ctx context.Context, p entity.Principal, id string, in PostInput, image *ImageUpload) (*PostView, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(p, policy.UpdatePost, policy.OnPost(post)).Err(); err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(in.Title); t != "" {
		post.Title = t
	}
	if strings.TrimSpace(in.Content) != "" {
		post.Content = in.Content
	}
	if c := strings.TrimSpace(in.Category); c != "" {
		post.Category = c
	}
	if in.Tags != nil {
		post.Tags = in.Tags
	}
	if image != nil {
		url, err := uploadImage(ctx, s.Images, "posts", post.OwnerID, image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = url
	}
	if err := s.Posts.Update(ctx, post); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.index(ctx, post)
	return s.view(ctx, post, nil), nil
}

// Delete removes a post. Owners delete their own posts; admins delete any.
func (s *PostService) Delete(ctx context.Context, p entity.Principal, id string) error {
	post, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(p, policy.DeletePost, policy.OnPost(post)).Err(); err != nil {
		return err
	}
	if err := s.Posts.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	metricPostsDeleted.Add(1)
	if s.Index != nil {
		if err := s.Index.Remove(ctx, post.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", post.ID).Warn("search index remove failed")
		}
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"post_id": post.ID, "by": p.ID}).Info("post deleted")
	}
	return nil
}

// Like adds the principal to the post's likes and returns the new count.
func (s *PostService) Like(ctx context.Context, p entity.Principal, id string) (int, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := policy.Authorize(p, policy.LikePost, policy.OnPost(post)).Err(); err != nil {
		return 0, err
	}
	n, added, err := s.Posts.AddLike(ctx, post.ID, p.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}
	// A concurrent like from the same account won the race.
	if !added {
		return n, policy.ErrAlreadyLiked
	}
	metricLikes.Add(1)
	return n, nil
}

// Unlike removes the principal from the post's likes. Unliking a post that
// was never liked succeeds without change.
func (s *PostService) Unlike(ctx context.Context, p entity.Principal, id string) (int, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := policy.Authorize(p, policy.UnlikePost, policy.OnPost(post)).Err(); err != nil {
		return 0, err
	}
	n, err := s.Posts.RemoveLike(ctx, post.ID, p.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}
	return n, nil
}

func (s *PostService) load(ctx context.Context, id string) (*entity.Post, error) {
	if !validID(id) {
		return nil, ErrInvalidID
	}
	post, err := s.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) index(ctx context.Context, post *entity.Post) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, post); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("post_id", post.ID).Warn("search index update failed")
	}
}

func (s *PostService) views(ctx context.Context, posts []*entity.Post) []PostView {
	cache := map[string]*AccountSummary{}
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, *s.view(ctx, p, cache))
	}
	return out
}

func (s *PostService) view(ctx context.Context, post *entity.Post, cache map[string]*AccountSummary) *PostView {
	if cache == nil {
		cache = map[string]*AccountSummary{}
	}
	return &PostView{Post: post, Owner: s.summary(ctx, post.OwnerID, cache)}
}

// summary resolves an account projection, memoizing per call. Lookup
// failures degrade to a nil summary.
func (s *PostService) summary(ctx context.Context, accountID string, cache map[string]*AccountSummary) *AccountSummary {
	if sum, ok := cache[accountID]; ok {
		return sum
	}
	var sum *AccountSummary
	if a, err := s.Accounts.GetByID(ctx, accountID); err == nil {
		sum = &AccountSummary{ID: a.ID, Username: a.Username, AvatarURL: a.AvatarURL}
	} else if !errors.Is(err, repo.ErrNotFound) && s.Logger != nil {
		s.Logger.WithError(err).WithField("account_id", accountID).Warn("account lookup failed")
	}
	cache[accountID] = sum
	return sum
}
