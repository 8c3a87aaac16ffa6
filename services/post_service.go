package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fbscore/fbscore/models"
	"github.com/fbscore/fbscore/repositories"
	"github.com/fbscore/fbscore/storage"
)

type CreatePostInput struct {
	Description string
	ImageKey    *string
}

type PostService interface {
	Create(ctx context.Context, userID int, input CreatePostInput) (*models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID int) ([]models.Post, error)
	Delete(ctx context.Context, userID, postID int) error
	ToggleLike(ctx context.Context, userID, postID int) (liked bool, likes int, err error)
	AddComment(ctx context.Context, userID, postID int, text string) (*models.PostComment, error)
	DeleteComment(ctx context.Context, userID, commentID int) error
}

type postService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewPostService(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) PostService {
	return &postService{
		postRepo: postRepo,
		userRepo: userRepo,
		uploader: uploader,
		logger:   logger,
	}
}

func (s *postService) Create(ctx context.Context, userID int, input CreatePostInput) (*models.Post, error) {
	if input.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidationFailed)
	}

	post := &models.Post{
		UserID:      userID,
		Description: input.Description,
		ImageKey:    input.ImageKey,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.populatePost(ctx, post)
	return post, nil
}

func (s *postService) ListAll(ctx context.Context) ([]models.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	for i := range posts {
		s.populatePost(ctx, &posts[i])
	}
	return posts, nil
}

func (s *postService) ListByUser(ctx context.Context, userID int) ([]models.Post, error) {
	posts, err := s.postRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by user: %w", err)
	}
	for i := range posts {
		s.populatePost(ctx, &posts[i])
	}
	return posts, nil
}

func (s *postService) Delete(ctx context.Context, userID, postID int) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to load post: %w", err)
	}
	if post.UserID != userID {
		return ErrForbiddenOperation
	}

	if err := s.postRepo.Delete(ctx, nil, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if post.ImageKey != nil && *post.ImageKey != "" && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *post.ImageKey); err != nil && s.logger != nil {
			s.logger.Warn("failed to delete post image", slog.String("key", *post.ImageKey), slog.Any("error", err))
		}
	}
	return nil
}

func (s *postService) ToggleLike(ctx context.Context, userID, postID int) (bool, int, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return false, 0, ErrPostNotFound
		}
		return false, 0, fmt.Errorf("failed to load post: %w", err)
	}

	liked, err := s.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("failed to toggle like: %w", err)
	}

	likes, err := s.postRepo.CountLikes(ctx, postID)
	if err != nil {
		return false, 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return liked, likes, nil
}

func (s *postService) AddComment(ctx context.Context, userID, postID int, text string) (*models.PostComment, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrValidationFailed)
	}

	comment := &models.PostComment{
		PostID:  postID,
		UserID:  userID,
		Comment: text,
	}
	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	if u, err := s.userRepo.GetByID(ctx, userID); err == nil {
		populateUserPicURL(u, s.uploader)
		comment.Author = u
	}
	return comment, nil
}

// DeleteComment allows the commenter or the post owner to remove a comment.
func (s *postService) DeleteComment(ctx context.Context, userID, commentID int) error {
	comment, err := s.postRepo.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to load comment: %w", err)
	}

	if comment.UserID != userID {
		post, err := s.postRepo.GetByID(ctx, comment.PostID)
		if err != nil {
			return fmt.Errorf("failed to load post: %w", err)
		}
		if post.UserID != userID {
			return ErrForbiddenOperation
		}
	}

	if err := s.postRepo.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *postService) populatePost(ctx context.Context, post *models.Post) {
	populatePostImageURL(post, s.uploader)

	if u, err := s.userRepo.GetByID(ctx, post.UserID); err == nil {
		populateUserPicURL(u, s.uploader)
		post.Author = u
	}

	if likes, err := s.postRepo.CountLikes(ctx, post.ID); err == nil {
		post.Likes = likes
	}

	if comments, err := s.postRepo.ListComments(ctx, post.ID); err == nil {
		for i := range comments {
			if u, err := s.userRepo.GetByID(ctx, comments[i].UserID); err == nil {
				populateUserPicURL(u, s.uploader)
				comments[i].Author = u
			}
		}
		post.Comments = comments
	}
}
