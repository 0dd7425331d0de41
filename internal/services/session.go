package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/authorizerdev/authorizer-go"
	"github.com/prylics/prylics-data/internal/config"
	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/utils"
)

var (
	authClient *authorizer.AuthorizerClient
	authOnce   sync.Once
)

// SessionUser is the identity-provider view of the signed-in user, mapped
// from the Authorizer user record.
type SessionUser struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	GivenName  *string `json:"given_name"`
	FamilyName *string `json:"family_name"`
	Nickname   *string `json:"nickname"`
	Picture    *string `json:"picture"`
}

// Profile derives the embedded profile snapshot used across posts,
// comments and messages.
func (u *SessionUser) Profile() models.UserProfile {
	name := strings.TrimSpace(deref(u.GivenName) + " " + deref(u.FamilyName))
	if name == "" {
		name = deref(u.Nickname)
	}
	if name == "" && u.Email != "" {
		name = strings.SplitN(u.Email, "@", 2)[0]
	}
	if name == "" {
		name = "Anonymous"
	}

	avatar := deref(u.Picture)
	if avatar == "" {
		avatar = PlaceholderAvatarURL
	}

	return models.UserProfile{
		UID:        u.ID,
		Name:       name,
		Email:      u.Email,
		AvatarURL:  avatar,
		ProfileURL: "/profile/" + u.ID,
	}
}

// IsAuthorizerInitialized returns true if the Authorizer client is initialized
func IsAuthorizerInitialized() bool {
	return authClient != nil
}

// InitAuthorizer initializes the Authorizer client (singleton pattern)
func InitAuthorizer(cfg *config.Config, requestProtocol, requestHost string) error {
	var initErr error

	authOnce.Do(func() {
		// Ping the Authorizer service first
		if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
			initErr = fmt.Errorf("authorizer ping failed: %w", err)
			return
		}

		redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)
		log.Printf("Initializing Authorizer: authorizerURL=%s, clientID=%s, redirectURL=%s",
			cfg.AuthzURL, cfg.AuthzClientID, redirectURL)

		var err error
		authClient, err = authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, redirectURL, nil)
		if err != nil {
			initErr = fmt.Errorf("failed to create authorizer client: %w", err)
			return
		}
	})

	return initErr
}

// ValidateSession validates a session cookie for the given roles and
// returns the session user.
func ValidateSession(cookie string, roles []string) (*SessionUser, error) {
	if authClient == nil {
		return nil, fmt.Errorf("authorizer client not initialized")
	}

	// Convert roles to []*string
	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := authClient.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}

	if res == nil || !res.IsValid {
		return nil, fmt.Errorf("session is not valid")
	}

	// Map the SDK user record through JSON rather than depending on its
	// field set version to version.
	raw, err := json.Marshal(res.User)
	if err != nil {
		return nil, fmt.Errorf("failed to read session user: %w", err)
	}
	var user SessionUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("session user has no id")
	}

	return &user, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
