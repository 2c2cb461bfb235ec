package service

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// ErrPostNotFound is returned when a post does not exist or is not owned by
// the requesting user. The two cases are indistinguishable on purpose.
var ErrPostNotFound = errors.New("post not found")

// PlanLimitError is returned when a user has reached their plan's post ceiling.
type PlanLimitError struct {
	MaxBlogs int
}

func (e *PlanLimitError) Error() string {
	return fmt.Sprintf("blog limit reached: your plan allows at most %d blogs", e.MaxBlogs)
}

// PostService defines business logic for blog posts, including the
// plan-ceiling gate applied at creation time.
type PostService interface {
	CreatePost(ctx context.Context, userID, email, title, content string) (*model.Post, error)
	GetPost(ctx context.Context, userID, postID string) (*model.Post, error)
	ListPosts(ctx context.Context, userID string) ([]model.Post, error)
	UpdatePost(ctx context.Context, userID, postID, title, content string) (*model.Post, error)
	DeletePost(ctx context.Context, userID, postID string) error
}

type postService struct {
	postRepo   repository.PostRepository
	profileSvc ProfileService
	logger     zerolog.Logger
}

// NewPostService creates a new PostService with a scoped logger.
func NewPostService(postRepo repository.PostRepository, profileSvc ProfileService, logger zerolog.Logger) PostService {
	return &postService{
		postRepo:   postRepo,
		profileSvc: profileSvc,
		logger:     logger.With().Str("service", "PostService").Logger(),
	}
}

// CreatePost creates a post after checking the owner's plan ceiling. Updates
// and deletes are never count-gated; only creation consumes quota.
func (s *postService) CreatePost(ctx context.Context, userID, email, title, content string) (*model.Post, error) {
	profile, err := s.profileSvc.EnsureProfile(ctx, userID, email)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.CountPostsByOwner(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to count posts for limit check")
		return nil, err
	}
	if max := profile.Plan.MaxBlogs(); count >= max {
		s.logger.Info().Str("user_id", userID).Str("plan", string(profile.Plan)).Int("count", count).Msg("Post creation rejected: plan limit reached")
		return nil, &PlanLimitError{MaxBlogs: max}
	}

	post := &model.Post{OwnerID: userID, Title: title, Content: content}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create post")
		return nil, err
	}
	return post, nil
}

func (s *postService) GetPost(ctx context.Context, userID, postID string) (*model.Post, error) {
	post, err := s.postRepo.GetPostByID(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) ListPosts(ctx context.Context, userID string) ([]model.Post, error) {
	return s.postRepo.ListPostsByOwner(ctx, userID)
}

func (s *postService) UpdatePost(ctx context.Context, userID, postID, title, content string) (*model.Post, error) {
	post := &model.Post{ID: postID, OwnerID: userID, Title: title, Content: content}
	updated, err := s.postRepo.UpdatePost(ctx, post)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to update post")
		return nil, err
	}
	if !updated {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, userID, postID string) error {
	deleted, err := s.postRepo.DeletePost(ctx, userID, postID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("post_id", postID).Msg("Failed to delete post")
		return err
	}
	if !deleted {
		return ErrPostNotFound
	}
	return nil
}
