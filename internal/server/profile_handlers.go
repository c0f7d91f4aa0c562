package server

import (
	"strconv"

	"blogapp/internal/models"
	"blogapp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns a user's public profile
// @Summary Get profile
// @Tags user
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /user/profile/{user_id}/ [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "user_id")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfile edits the caller's profile from JSON or multipart form data
// @Summary Update profile
// @Tags user
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} models.Profile
// @Failure 403 {object} models.ErrorResponse
// @Router /user/profile/{user_id}/ [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "user_id")
	if err != nil {
		return nil
	}

	var in service.UpdateProfileInput
	if isMultipart(c) {
		in, err = profileInputFromForm(c)
		if err != nil {
			return models.Respond(c, err)
		}
	} else if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	profile, err := s.profileService.UpdateProfile(c.UserContext(), callerID(c), userID, in)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(profile)
}

func profileInputFromForm(c *fiber.Ctx) (service.UpdateProfileInput, error) {
	var in service.UpdateProfileInput
	text := map[string]**string{
		"full_name": &in.FullName,
		"bio":       &in.Bio,
		"about":     &in.About,
		"country":   &in.Country,
		"facebook":  &in.Facebook,
		"twitter":   &in.Twitter,
	}
	for key, dst := range text {
		if v, ok := formValue(c, key); ok {
			*dst = &v
		}
	}
	if raw, ok := formValue(c, "author"); ok {
		author, err := strconv.ParseBool(raw)
		if err != nil {
			return in, models.NewFieldValidationError("Validation failed", map[string][]string{
				"author": {"Must be a valid boolean."},
			})
		}
		in.Author = &author
	}

	upload, err := readUpload(c, "image")
	if err != nil {
		return in, err
	}
	in.Image = upload
	return in, nil
}
