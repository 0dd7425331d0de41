package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prylics/prylics-data/internal/services"
	"github.com/prylics/prylics-data/internal/utils"
)

// SuggestHandler handles AI tag-suggestion routes
type SuggestHandler struct {
	Suggester *services.TagSuggester
}

// SuggestTagsRequest is the body of POST /api/suggest/tags.
type SuggestTagsRequest struct {
	PostContent string `json:"postContent"`
}

// SuggestTagsResponse is always returned, possibly with an empty list.
type SuggestTagsResponse struct {
	SuggestedTags []string `json:"suggestedTags"`
}

// SuggestTags handles POST /api/suggest/tags
// @Summary Suggest tags for post content
// @Description Advisory only: short content or any model failure yields an empty list, never an error
// @Tags Suggest
// @Accept json
// @Produce json
// @Param request body SuggestTagsRequest true "Draft post content"
// @Success 200 {object} SuggestTagsResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /suggest/tags [post]
func (h *SuggestHandler) SuggestTags(c *fiber.Ctx) error {
	if _, ok := currentProfile(c); !ok {
		return unauthenticatedResponse(c)
	}

	var req SuggestTagsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	tags := h.Suggester.SuggestTags(c.Context(), req.PostContent)
	return c.Status(fiber.StatusOK).JSON(SuggestTagsResponse{SuggestedTags: tags})
}
