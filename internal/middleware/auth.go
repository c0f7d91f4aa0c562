package middleware

import (
	"context"
	"strings"

	"blogapp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TokenVerifier checks an access token and returns the user it was issued to.
type TokenVerifier interface {
	VerifyAccess(token string) (uint, error)
}

// AuthRequired enforces a valid bearer access token and stores the caller's
// id in locals under "userID" and in the user context.
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization header required"))
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		userID, err := verifier.VerifyAccess(strings.TrimSpace(token))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		c.Locals("userID", userID)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
		return c.Next()
	}
}
