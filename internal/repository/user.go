// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"blogapp/internal/cache"
	"blogapp/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users and their profiles.
type UserRepository interface {
	Create(ctx context.Context, user *models.User, profile *models.Profile) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	TakenField(ctx context.Context, email, username string) (string, error)
	GetProfile(ctx context.Context, userID uint) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user and its profile in one transaction. A nil profile
// gets the defaults.
func (r *userRepository) Create(ctx context.Context, user *models.User, profile *models.Profile) error {
	if profile == nil {
		profile = &models.Profile{}
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		profile.ApplyDefaults(user)
		return tx.Omit("User").Create(profile).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			field := uniqueViolationField(err, "email", "username")
			return models.NewConflictError(field, "A user with that "+field+" already exists.")
		}
		return models.NewInternalError(err)
	}
	user.Profile = profile
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateLookup(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, translateLookup(err, "User", email)
	}
	return &user, nil
}

// TakenField returns "email" or "username" when either is already in use, or
// an empty string when both are free.
func (r *userRepository) TakenField(ctx context.Context, email, username string) (string, error) {
	var existing models.User
	err := r.db.WithContext(ctx).
		Select("id", "email", "username").
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Or("username = ?", username).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if strings.EqualFold(existing.Email, email) {
		return "email", nil
	}
	return "username", nil
}

// GetProfile loads the profile with its user, served through the profile cache.
func (r *userRepository) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileKey(userID), &profile, cache.ProfileTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("User").
			Where("user_id = ?", userID).
			First(&profile).Error; err != nil {
			return translateLookup(err, "Profile", userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	err := r.db.WithContext(ctx).
		Model(profile).
		Select("image", "full_name", "bio", "about", "author", "country", "facebook", "twitter").
		Updates(profile).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, profile.UserID)
	return nil
}
