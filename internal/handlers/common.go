package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/prylics/prylics-data/internal/middleware"
	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/services"
	"github.com/prylics/prylics-data/internal/utils"
)

// currentProfile extracts the authenticated profile placed by the auth
// middleware.
func currentProfile(c *fiber.Ctx) (models.UserProfile, bool) {
	return middleware.Profile(c)
}

// unauthenticatedResponse rejects a mutation that reached a handler without
// an authenticated profile.
func unauthenticatedResponse(c *fiber.Ctx) error {
	return utils.ForbiddenResponse(c, "Authentication required")
}

// serviceErrorResponse maps service errors onto the response envelope.
func serviceErrorResponse(c *fiber.Ctx, err error, errorType string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalid):
		return utils.BadRequestResponse(c, err.Error())
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
}
