package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/isdelr/postboard-be/internal/apperr"
	"github.com/isdelr/postboard-be/internal/models"
	"github.com/isdelr/postboard-be/internal/store"
	"github.com/isdelr/postboard-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// PostBroadcaster fans a post change event out to connected clients.
// Publishing is advisory and must never fail the mutation that triggered it.
type PostBroadcaster interface {
	Publish(msg websocket.Message)
}

// ImageRemover deletes a stored image by its logical path, best-effort.
type ImageRemover interface {
	Remove(path string)
}

// PostInput carries the fields for creating a post.
type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

// PostUpdateInput carries the fields for updating a post. Image is
// three-state: nil leaves the stored image untouched, a non-nil value
// replaces it (an empty value is a validation error; posts always have an
// image).
type PostUpdateInput struct {
	Title   string
	Content string
	Image   *string
}

// PostServiceProvider defines the interface for the post lifecycle.
type PostServiceProvider interface {
	Create(ctx context.Context, input PostInput) (models.Post, error)
	Get(ctx context.Context, id string) (models.Post, error)
	List(ctx context.Context, page int) ([]models.Post, int, error)
	Update(ctx context.Context, id string, input PostUpdateInput) (models.Post, error)
	Delete(ctx context.Context, id string) error
}

// PostService orchestrates the post lifecycle: authorization, validation,
// persistence, image cleanup and the post-commit broadcast.
type PostService struct {
	store       *store.Store
	images      ImageRemover
	broadcaster PostBroadcaster
	perPage     int
}

// NewPostService creates a new PostService. perPage is the feed page size.
func NewPostService(st *store.Store, images ImageRemover, broadcaster PostBroadcaster, perPage int) *PostService {
	return &PostService{store: st, images: images, broadcaster: broadcaster, perPage: perPage}
}

// Create validates and persists a new post for the authenticated caller,
// links it into the caller's post collection and broadcasts the creation.
func (s *PostService) Create(ctx context.Context, input PostInput) (models.Post, error) {
	claims, err := requireAuth(ctx)
	if err != nil {
		return models.Post{}, err
	}

	details := validatePostFields(input.Title, input.Content)
	if input.ImageURL == "" {
		details = append(details, apperr.Detail{Message: "No image provided"})
	}
	if len(details) > 0 {
		return models.Post{}, apperr.InvalidInput("Invalid input", details)
	}

	creator, err := s.store.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Post{}, apperr.Unauthenticated("Invalid user")
		}
		return models.Post{}, apperr.Internal("Failed to load user", err)
	}

	now := time.Now().UTC()
	post := models.Post{
		ID:        uuid.New().String(),
		Title:     input.Title,
		Content:   input.Content,
		ImageURL:  input.ImageURL,
		CreatorID: creator.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return models.Post{}, apperr.Internal("Failed to create post", err)
	}

	creator.PasswordHash = ""
	creator.PostIDs = append([]string{post.ID}, creator.PostIDs...)
	post.Creator = &creator

	s.broadcaster.Publish(websocket.Message{Action: "create", Post: &post})
	return post, nil
}

// Get loads a single post with its creator resolved.
func (s *PostService) Get(ctx context.Context, id string) (models.Post, error) {
	if _, err := requireAuth(ctx); err != nil {
		return models.Post{}, err
	}
	post, err := s.store.FindPostByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Post{}, apperr.NotFound("No post found")
		}
		return models.Post{}, apperr.Internal("Failed to load post", err)
	}
	return post, nil
}

// List returns one page of the feed, newest first, plus the total post count.
// Pages are 1-indexed; anything below 1 means the first page.
func (s *PostService) List(ctx context.Context, page int) ([]models.Post, int, error) {
	if _, err := requireAuth(ctx); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	posts, total, err := s.store.FindPosts(ctx, page, s.perPage)
	if err != nil {
		return nil, 0, apperr.Internal("Failed to load posts", err)
	}
	return posts, total, nil
}

// Update rewrites a post's fields. Only the creator may update. A replaced
// image schedules best-effort removal of the old file.
func (s *PostService) Update(ctx context.Context, id string, input PostUpdateInput) (models.Post, error) {
	claims, err := requireAuth(ctx)
	if err != nil {
		return models.Post{}, err
	}

	post, err := s.store.FindPostByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Post{}, apperr.NotFound("No post found")
		}
		return models.Post{}, apperr.Internal("Failed to load post", err)
	}
	if post.CreatorID != claims.UserID {
		return models.Post{}, apperr.NotAuthorized("Not authorized")
	}

	details := validatePostFields(input.Title, input.Content)
	if input.Image != nil && *input.Image == "" {
		details = append(details, apperr.Detail{Message: "No image picked"})
	}
	if len(details) > 0 {
		return models.Post{}, apperr.InvalidInput("Invalid input", details)
	}

	if input.Image != nil && *input.Image != post.ImageURL {
		s.images.Remove(post.ImageURL)
		post.ImageURL = *input.Image
	}
	post.Title = input.Title
	post.Content = input.Content
	post.UpdatedAt = time.Now().UTC()

	if err := s.store.SavePost(ctx, post); err != nil {
		return models.Post{}, apperr.Internal("Failed to save post", err)
	}

	s.broadcaster.Publish(websocket.Message{Action: "update", Post: &post})
	return post, nil
}

// Delete removes a post, its stored image and its entry in the creator's
// post collection, then broadcasts the deletion. Only the creator may delete.
func (s *PostService) Delete(ctx context.Context, id string) error {
	claims, err := requireAuth(ctx)
	if err != nil {
		return err
	}

	post, err := s.store.FindPostByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("No post found")
		}
		return apperr.Internal("Failed to load post", err)
	}
	if post.CreatorID != claims.UserID {
		return apperr.NotAuthorized("Not authorized")
	}

	s.images.Remove(post.ImageURL)

	if err := s.store.DeletePost(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("No post found")
		}
		return apperr.Internal("Failed to delete post", err)
	}

	log.Info().Str("post_id", id).Str("user_id", claims.UserID).Msg("Post deleted")
	s.broadcaster.Publish(websocket.Message{Action: "delete", PostID: id})
	return nil
}

// validatePostFields aggregates title/content failures. Both must be present
// and at least 5 characters.
func validatePostFields(title, content string) []apperr.Detail {
	var details []apperr.Detail
	if strings.TrimSpace(title) == "" || utf8.RuneCountInString(title) < 5 {
		details = append(details, apperr.Detail{Message: "Title is invalid"})
	}
	if strings.TrimSpace(content) == "" || utf8.RuneCountInString(content) < 5 {
		details = append(details, apperr.Detail{Message: "Content is invalid"})
	}
	return details
}
