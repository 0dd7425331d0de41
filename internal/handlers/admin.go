package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/store"
	"github.com/prylics/prylics-data/internal/utils"
)

// AdminHandler handles operator-only routes
type AdminHandler struct {
	Store     *store.Store
	SeedPosts []models.Post
}

// Reseed handles POST /api/admin/seed
// @Summary Rewrite the seeded demo posts
// @Description Overwrites initialPosts with the embedded demo content; admin role required
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /admin/seed [post]
func (h *AdminHandler) Reseed(c *fiber.Ctx) error {
	if err := store.Save(h.Store, store.CollectionInitialPosts, h.SeedPosts); err != nil {
		return serviceErrorResponse(c, err, "reseed")
	}
	return utils.MutationSuccessResponse(c, fiber.Map{"seededPosts": len(h.SeedPosts)})
}
