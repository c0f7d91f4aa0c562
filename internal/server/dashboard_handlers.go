package server

import (
	"blogapp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// DashboardStats returns the author's views, posts, likes and bookmarks
// @Summary Author statistics
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "Author ID"
// @Success 200 {array} models.DashboardStats
// @Failure 403 {object} models.ErrorResponse
// @Router /author/dashboard/stats/{user_id}/ [get]
func (s *Server) DashboardStats(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "user_id")
	if err != nil {
		return nil
	}
	stats, err := s.dashboardService.Stats(c.UserContext(), callerID(c), userID)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(stats)
}

// featureFlagState is one configured flag as seen by the caller.
type featureFlagState struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

// DashboardFeatureFlags lists the configured feature flags and whether each is on for the caller
// @Summary Feature flags for the caller
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} featureFlagState
// @Router /author/dashboard/flags/ [get]
func (s *Server) DashboardFeatureFlags(c *fiber.Ctx) error {
	raw := s.featureFlags.Raw()
	caller := callerID(c)

	flags := make([]featureFlagState, 0, len(raw))
	for _, name := range s.featureFlags.Names() {
		flags = append(flags, featureFlagState{
			Name:    name,
			Value:   raw[name],
			Enabled: s.featureFlags.Enabled(name, caller),
		})
	}
	return c.JSON(flags)
}
