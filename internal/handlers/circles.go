// circles.go
//
// Circle handlers: listing is public, everything else requires a signed-in
// user, chat access requires membership, deletion requires the creator.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prylics/prylics-data/internal/services"
	"github.com/prylics/prylics-data/internal/store"
	"github.com/prylics/prylics-data/internal/utils"
)

// CirclesHandler handles circle routes
type CirclesHandler struct {
	Store *store.Store
}

// CreateCircleRequest is the body of POST /api/circles.
type CreateCircleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListCircles handles GET /api/circles
// @Summary List all circles
// @Tags Circles
// @Produce json
// @Success 200 {array} models.Circle
// @Router /circles [get]
func (h *CirclesHandler) ListCircles(c *fiber.Ctx) error {
	circles, err := services.ListCircles(h.Store)
	if err != nil {
		return serviceErrorResponse(c, err, "listCircles")
	}
	return c.Status(fiber.StatusOK).JSON(circles)
}

// CreateCircle handles POST /api/circles
// @Summary Create a circle
// @Description The creator becomes the first member and an empty chat is created
// @Tags Circles
// @Accept json
// @Produce json
// @Param request body CreateCircleRequest true "Circle name and description"
// @Success 201 {object} models.Circle
// @Failure 400 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /circles [post]
func (h *CirclesHandler) CreateCircle(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	var req CreateCircleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	circle, err := services.CreateCircle(h.Store, profile, req.Name, req.Description)
	if err != nil {
		return serviceErrorResponse(c, err, "createCircle")
	}
	return c.Status(fiber.StatusCreated).JSON(circle)
}

// GetCircle handles GET /api/circles/:circleId
// @Summary Get a circle
// @Tags Circles
// @Produce json
// @Param circleId path string true "Circle ID"
// @Success 200 {object} models.Circle
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /circles/{circleId} [get]
func (h *CirclesHandler) GetCircle(c *fiber.Ctx) error {
	circle, err := services.GetCircle(h.Store, c.Params("circleId"))
	if err != nil {
		return serviceErrorResponse(c, err, "getCircle")
	}
	return c.Status(fiber.StatusOK).JSON(circle)
}

// DeleteCircle handles DELETE /api/circles/:circleId
// @Summary Delete a circle
// @Description Removes the circle, its chat, and its id from every member's roster; creator only
// @Tags Circles
// @Produce json
// @Param circleId path string true "Circle ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /circles/{circleId} [delete]
func (h *CirclesHandler) DeleteCircle(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	circleID := c.Params("circleId")
	if err := services.DeleteCircle(h.Store, profile.UID, circleID); err != nil {
		return serviceErrorResponse(c, err, "deleteCircle")
	}
	return utils.MutationSuccessResponse(c, fiber.Map{"deleted": circleID})
}

// ToggleMembership handles POST /api/circles/:circleId/membership
// @Summary Join or leave a circle
// @Description Toggle: member count follows, clamped at zero. The joined flag tells the client whether to enter the chat.
// @Tags Circles
// @Produce json
// @Param circleId path string true "Circle ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /circles/{circleId}/membership [post]
func (h *CirclesHandler) ToggleMembership(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	joined, circle, err := services.ToggleCircleMembership(h.Store, profile.UID, c.Params("circleId"))
	if err != nil {
		return serviceErrorResponse(c, err, "toggleMembership")
	}
	return utils.MutationSuccessResponse(c, fiber.Map{"joined": joined, "circle": circle})
}

// GetMessages handles GET /api/circles/:circleId/messages
// @Summary Get the circle chat
// @Tags Circles
// @Produce json
// @Param circleId path string true "Circle ID"
// @Success 200 {object} models.CircleChat
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /circles/{circleId}/messages [get]
func (h *CirclesHandler) GetMessages(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	chat, err := services.GetCircleChat(h.Store, profile.UID, c.Params("circleId"))
	if err != nil {
		return serviceErrorResponse(c, err, "getCircleMessages")
	}
	return c.Status(fiber.StatusOK).JSON(chat)
}

// PostMessage handles POST /api/circles/:circleId/messages
// @Summary Send a circle chat message
// @Tags Circles
// @Accept json
// @Produce json
// @Param circleId path string true "Circle ID"
// @Param request body MessageRequest true "Message text"
// @Success 201 {object} models.Message
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /circles/{circleId}/messages [post]
func (h *CirclesHandler) PostMessage(c *fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return unauthenticatedResponse(c)
	}

	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	message, err := services.AppendCircleMessage(h.Store, c.Params("circleId"), profile, req.Text)
	if err != nil {
		return serviceErrorResponse(c, err, "postCircleMessage")
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
