// feed.go
//
// Read-side handlers for the assembled timeline and the crowdfunding
// listing.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/services"
	"github.com/prylics/prylics-data/internal/store"
	"github.com/prylics/prylics-data/internal/utils"
)

// FeedHandler handles feed routes
type FeedHandler struct {
	Store *store.Store
}

// GetFeed handles GET /api/feed?type=...
// @Summary Get the assembled feed
// @Description User posts merged with seeded posts, newest first, optionally filtered by post type
// @Tags Feed
// @Produce json
// @Param type query string false "Post type filter (research, idea, question)"
// @Success 200 {array} models.Post
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /feed [get]
func (h *FeedHandler) GetFeed(c *fiber.Ctx) error {
	feed, err := services.LoadFeed(h.Store)
	if err != nil {
		return serviceErrorResponse(c, err, "getFeed")
	}

	if typeParam := c.Query("type"); typeParam != "" {
		postType := models.PostType(typeParam)
		if !postType.Valid() {
			return utils.BadRequestResponse(c, "Unknown post type: "+typeParam)
		}
		feed = services.FilterPostsByType(feed, postType)
	}

	return c.Status(fiber.StatusOK).JSON(feed)
}

// GetCrowdfunding handles GET /api/crowdfunding
// @Summary List posts seeking funding
// @Description Feed entries that carry a crowdfunding goal
// @Tags Feed
// @Produce json
// @Success 200 {array} models.Post
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /crowdfunding [get]
func (h *FeedHandler) GetCrowdfunding(c *fiber.Ctx) error {
	funded, err := services.LoadFundedPosts(h.Store)
	if err != nil {
		return serviceErrorResponse(c, err, "getCrowdfunding")
	}
	return c.Status(fiber.StatusOK).JSON(funded)
}
