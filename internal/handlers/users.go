// users.go
//
// Directory, profile and follow-graph handlers.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prylics/prylics-data/internal/services"
	"github.com/prylics/prylics-data/internal/store"
	"github.com/prylics/prylics-data/internal/utils"
)

// UsersHandler handles user directory routes
type UsersHandler struct {
	Store *store.Store
}

// SearchUsers handles GET /api/users?q=...
// @Summary Search the user directory
// @Description Case-insensitive substring match on name or email
// @Tags Users
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {array} models.UserProfile
// @Router /users [get]
func (h *UsersHandler) SearchUsers(c *fiber.Ctx) error {
	matches, err := services.SearchUsers(h.Store, c.Query("q"))
	if err != nil {
		return serviceErrorResponse(c, err, "searchUsers")
	}
	return c.Status(fiber.StatusOK).JSON(matches)
}

// GetUser handles GET /api/users/:userId
// @Summary Get a user's profile page data
// @Description Profile with resolved follower and following lists, authored posts and collaborations. Unknown uids get a placeholder profile so profile views never 404.
// @Tags Users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userId} [get]
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	userID := c.Params("userId")

	profile, err := services.ProfileOrPlaceholder(h.Store, userID)
	if err != nil {
		return serviceErrorResponse(c, err, "getUser")
	}

	followers, err := services.FollowerProfiles(h.Store, userID)
	if err != nil {
		return serviceErrorResponse(c, err, "getUser")
	}
	following, err := services.FollowingProfiles(h.Store, userID)
	if err != nil {
		return serviceErrorResponse(c, err, "getUser")
	}
	posts, err := services.ListPostsByAuthor(h.Store, userID)
	if err != nil {
		return serviceErrorResponse(c, err, "getUser")
	}
	projects, err := services.ListProjectsForUser(h.Store, userID)
	if err != nil {
		return serviceErrorResponse(c, err, "getUser")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user":      profile,
		"followers": followers,
		"following": following,
		"posts":     posts,
		"projects":  projects,
	})
}

// ToggleFollow handles POST /api/users/:userId/follow
// @Summary Follow or unfollow a user
// @Description Toggle: following flips to not-following and back
// @Tags Users
// @Produce json
// @Param userId path string true "Target user ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /users/{userId}/follow [post]
func (h *UsersHandler) ToggleFollow(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	followed, err := services.ToggleFollow(h.Store, profile.UID, c.Params("userId"))
	if err != nil {
		return serviceErrorResponse(c, err, "toggleFollow")
	}

	return utils.MutationSuccessResponse(c, fiber.Map{"following": followed})
}
