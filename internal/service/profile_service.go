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

// ImageSaver stores an uploaded image and returns its public URL.
type ImageSaver interface {
	Save(ctx context.Context, in media.Upload) (string, error)
}

// UpdateProfileInput carries the editable profile fields. Nil pointers leave
// the stored value untouched.
type UpdateProfileInput struct {
	FullName *string       `json:"full_name" form:"full_name" validate:"omitempty,max=100"`
	Bio      *string       `json:"bio" form:"bio" validate:"omitempty,max=100"`
	About    *string       `json:"about" form:"about" validate:"omitempty,max=100"`
	Country  *string       `json:"country" form:"country" validate:"omitempty,max=100"`
	Facebook *string       `json:"facebook" form:"facebook" validate:"omitempty,max=100"`
	Twitter  *string       `json:"twitter" form:"twitter" validate:"omitempty,max=100"`
	Author   *bool         `json:"author" form:"author"`
	Image    *media.Upload `json:"-" form:"-"`
}

type ProfileService struct {
	users  repository.UserRepository
	images ImageSaver
}

func NewProfileService(users repository.UserRepository, images ImageSaver) *ProfileService {
	return &ProfileService{users: users, images: images}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.users.GetProfile(ctx, userID)
}

// UpdateProfile applies in to the profile of userID. Only the owner may edit.
func (s *ProfileService) UpdateProfile(ctx context.Context, callerID, userID uint, in UpdateProfileInput) (*models.Profile, error) {
	ctx, span := observability.StartSpan(ctx, "ProfileService", "UpdateProfile")
	defer span.End()

	if callerID != userID {
		return nil, models.NewForbiddenError("You can only edit your own profile")
	}
	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}

	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&profile.FullName, in.FullName)
	assign(&profile.Bio, in.Bio)
	assign(&profile.About, in.About)
	assign(&profile.Country, in.Country)
	assign(&profile.Facebook, in.Facebook)
	assign(&profile.Twitter, in.Twitter)
	if in.Author != nil {
		profile.Author = *in.Author
	}
	if profile.FullName == "" && profile.User != nil {
		profile.FullName = profile.User.FullName
	}

	if in.Image != nil {
		upload := *in.Image
		upload.Kind = media.KindProfile
		upload.UserID = userID
		url, err := s.images.Save(ctx, upload)
		if err != nil {
			span.SetError(err)
			return nil, err
		}
		profile.Image = url
	}

	if err := s.users.UpdateProfile(ctx, profile); err != nil {
		span.SetError(err)
		return nil, err
	}
	return profile, nil
}
