package repository

import (
	"context"

	"blogapp/internal/cache"
	"blogapp/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines read and seed operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Upsert(ctx context.Context, category *models.Category) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

const categoryPostCountSelect = "categories.*, " +
	"(SELECT COUNT(*) FROM posts WHERE posts.category_id = categories.id AND posts.status = ?) AS post_count"

// List returns every category with its Active post count, through the cache.
func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := cache.Aside(ctx, cache.CategoryListKey, &categories, cache.CategoryListTTL, func() error {
		if err := r.db.WithContext(ctx).
			Select(categoryPostCountSelect, models.PostStatusActive).
			Order("categories.id ASC").
			Find(&categories).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Select(categoryPostCountSelect, models.PostStatusActive).
		Where("slug = ?", slug).
		First(&category).Error
	if err != nil {
		return nil, translateLookup(err, "Category", slug)
	}
	return &category, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translateLookup(err, "Category", id)
	}
	return &category, nil
}

// Upsert creates the category, or refreshes title and image when its slug exists.
func (r *categoryRepository) Upsert(ctx context.Context, category *models.Category) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug := category.Slug
		if slug == "" {
			slug = models.Slugify(category.Title)
		}
		var existing models.Category
		err := tx.Where("slug = ?", slug).Limit(1).Find(&existing).Error
		if err != nil {
			return err
		}
		if existing.ID == 0 {
			return tx.Create(category).Error
		}
		category.ID = existing.ID
		category.Slug = existing.Slug
		return tx.Model(&existing).Updates(map[string]any{
			"title": category.Title,
			"image": category.Image,
		}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCategories(ctx)
	return nil
}
