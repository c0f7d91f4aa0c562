package server

import (
	"blogapp/internal/models"
	"blogapp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// userResponse is the public shape of a freshly registered user.
type userResponse struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Register handles user registration
// @Summary Register
// @Description Create an account and its profile
// @Tags user
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration payload"
// @Success 201 {object} userResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /user/register/ [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return models.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(userResponse{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Username: user.Username,
	})
}

// ObtainTokenPair exchanges credentials for access and refresh tokens
// @Summary Obtain token pair
// @Tags user
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} service.TokenPair
// @Failure 401 {object} models.ErrorResponse
// @Router /user/token/ [post]
func (s *Server) ObtainTokenPair(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	pair, err := s.authService.IssueTokenPair(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(pair)
}

// RefreshToken issues a new access token from a refresh token
// @Summary Refresh access token
// @Tags user
// @Accept json
// @Produce json
// @Param request body object{refresh=string} true "Refresh token"
// @Success 200 {object} object{access=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /user/token/refresh/ [post]
func (s *Server) RefreshToken(c *fiber.Ctx) error {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Refresh == "" {
		return models.Respond(c, models.NewFieldValidationError("Validation failed", map[string][]string{
			"refresh": {"This field is required."},
		}))
	}

	access, err := s.authService.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"access": access})
}
