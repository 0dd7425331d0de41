package middleware

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/services"
	"github.com/prylics/prylics-data/internal/store"
	"github.com/prylics/prylics-data/internal/types"
)

// ProfileKey is the fiber.Ctx local under which the authenticated user's
// profile snapshot is stored.
const ProfileKey = "profile"

// AuthAdmin validates that the request has admin role authorization
func AuthAdmin(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, s, []string{"admin"}, "authorization.admin")
	}
}

// AuthUser validates that the request has user role authorization
func AuthUser(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, s, []string{"user"}, "authorization.user")
	}
}

// authorize performs the authorization check and registers the user in the
// known-users directory the first time the uid is seen.
func authorize(c *fiber.Ctx, s *store.Store, roles []string, errorType string) error {
	// Get session cookie
	session := c.Cookies("cookie_session")
	if session == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    errorType,
		}
	}

	// Validate session
	user, err := services.ValidateSession(session, roles)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
		}
	}

	profile := user.Profile()

	// Directory registration is best effort; a store hiccup must not block
	// an authenticated request.
	if err := services.EnsureKnownUser(s, profile); err != nil {
		log.Printf("WARN failed to register known user %s: %v", profile.UID, err)
	}

	c.Locals(ProfileKey, profile)

	return c.Next()
}

// Profile extracts the authenticated profile set by AuthUser/AuthAdmin.
func Profile(c *fiber.Ctx) (models.UserProfile, bool) {
	profile, ok := c.Locals(ProfileKey).(models.UserProfile)
	return profile, ok
}
