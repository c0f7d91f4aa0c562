package service

import (
	"context"
	"strings"

	"blogapp/internal/media"
	"blogapp/internal/models"
	"blogapp/internal/observability"
	"blogapp/internal/repository"
	"blogapp/internal/validation"
)

// imageUnchanged is what browser clients send when the image input was left empty.
const imageUnchanged = "undefined"

type PostService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	images     ImageSaver
}

// PostInput is the author payload for creating or updating a post.
type PostInput struct {
	UserID      uint          `json:"user_id"`
	Title       string        `json:"title" validate:"required,max=100"`
	Image       string        `json:"image" validate:"max=255"`
	Description string        `json:"description"`
	Tags        string        `json:"tags" validate:"max=255"`
	CategoryID  *uint         `json:"category"`
	Status      string        `json:"post_status" validate:"omitempty,oneof=Active Draft Disabled"`
	Upload      *media.Upload `json:"-"`
}

func NewPostService(
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	users repository.UserRepository,
	images ImageSaver,
) *PostService {
	return &PostService{
		posts:      posts,
		categories: categories,
		users:      users,
		images:     images,
	}
}

func (s *PostService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// ListCategoryPosts returns the Active posts filed under the category slug.
func (s *PostService) ListCategoryPosts(ctx context.Context, slug string) ([]models.Post, error) {
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.posts.ListActiveByCategory(ctx, category.ID)
}

// ListPosts returns Active posts newest first. A non-positive limit returns all.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	if offset < 0 {
		offset = 0
	}
	return s.posts.ListActive(ctx, limit, offset)
}

// ViewPost loads an Active post by slug and counts the view.
func (s *PostService) ViewPost(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.posts.ViewActiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	observability.PostViews.Inc()
	return post, nil
}

func (s *PostService) ListAuthorPosts(ctx context.Context, callerID, userID uint) ([]models.Post, error) {
	if err := requireSelf(callerID, userID); err != nil {
		return nil, err
	}
	return s.posts.ListByAuthor(ctx, userID)
}

func (s *PostService) GetAuthorPost(ctx context.Context, callerID, userID, postID uint) (*models.Post, error) {
	if err := requireSelf(callerID, userID); err != nil {
		return nil, err
	}
	return s.posts.GetForAuthor(ctx, userID, postID)
}

// CreatePost stores a new post for the caller. UserID defaults to the caller.
func (s *PostService) CreatePost(ctx context.Context, callerID uint, in PostInput) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "CreatePost")
	defer span.End()

	if in.UserID == 0 {
		in.UserID = callerID
	}
	if err := requireSelf(callerID, in.UserID); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	profile, err := s.users.GetProfile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:      in.UserID,
		ProfileID:   &profile.ID,
		CategoryID:  nonZero(in.CategoryID),
		Title:       in.Title,
		Description: in.Description,
		Tags:        models.NormalizeTags(in.Tags),
		Status:      in.Status,
	}
	if img := strings.TrimSpace(in.Image); img != imageUnchanged {
		post.Image = img
	}
	if in.Upload != nil {
		url, err := s.saveImage(ctx, in.UserID, in.Upload)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		post.Image = url
	}

	if err := s.posts.Create(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}
	return s.posts.GetForAuthor(ctx, in.UserID, post.ID)
}

// UpdatePost rewrites the author-editable fields. An empty or "undefined"
// image and an absent category keep the stored values.
func (s *PostService) UpdatePost(ctx context.Context, callerID, userID, postID uint, in PostInput) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "UpdatePost")
	defer span.End()

	if err := requireSelf(callerID, userID); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}

	post, err := s.posts.GetForAuthor(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
		post.CategoryID = nonZero(in.CategoryID)
	}

	post.Title = in.Title
	post.Description = in.Description
	post.Tags = models.NormalizeTags(in.Tags)
	if in.Status != "" {
		post.Status = in.Status
	}
	if img := strings.TrimSpace(in.Image); img != "" && img != imageUnchanged {
		post.Image = img
	}
	if in.Upload != nil {
		url, err := s.saveImage(ctx, userID, in.Upload)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		post.Image = url
	}

	if err := s.posts.Update(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}
	return s.posts.GetForAuthor(ctx, userID, postID)
}

func (s *PostService) DeletePost(ctx context.Context, callerID, userID, postID uint) error {
	if err := requireSelf(callerID, userID); err != nil {
		return err
	}
	return s.posts.Delete(ctx, userID, postID)
}

func (s *PostService) checkCategory(ctx context.Context, id *uint) error {
	if id == nil || *id == 0 {
		return nil
	}
	if _, err := s.categories.GetByID(ctx, *id); err != nil {
		if models.IsNotFound(err) {
			return models.NewFieldValidationError("Validation failed", map[string][]string{
				"category": {"Select a valid choice. That choice is not one of the available choices."},
			})
		}
		return err
	}
	return nil
}

func (s *PostService) saveImage(ctx context.Context, userID uint, upload *media.Upload) (string, error) {
	in := *upload
	in.Kind = media.KindPost
	in.UserID = userID
	return s.images.Save(ctx, in)
}

// requireSelf rejects callers acting on another user's resources.
func requireSelf(callerID, userID uint) error {
	if callerID == 0 || callerID != userID {
		return models.NewForbiddenError("You do not have permission to perform this action.")
	}
	return nil
}

func nonZero(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}
