// users.go
//
// The known-users directory and the follow graph. Profiles are registered
// once per uid at sign-in; everything that later needs a display name
// resolves against the directory and falls back to a placeholder so views
// survive references to users who never signed in here.

package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/store"
)

// PlaceholderAvatarURL is used when the identity provider has no photo.
const PlaceholderAvatarURL = "https://placehold.co/100x100.png"

// PlaceholderProfile stands in for a uid the directory does not know.
func PlaceholderProfile(userID string) models.UserProfile {
	return models.UserProfile{
		UID:        userID,
		Name:       "Unknown User",
		AvatarURL:  PlaceholderAvatarURL,
		ProfileURL: "/profile/" + userID,
	}
}

// EnsureKnownUser registers the profile in the directory if the uid has not
// been seen before. Existing entries are left untouched.
func EnsureKnownUser(s *store.Store, profile models.UserProfile) error {
	users, err := store.Load[models.UserProfile](s, store.CollectionKnownUsers)
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.UID == profile.UID {
			return nil
		}
	}
	users = append(users, profile)
	return store.Save(s, store.CollectionKnownUsers, users)
}

// GetUserProfile resolves a uid against the directory.
func GetUserProfile(s *store.Store, userID string) (*models.UserProfile, error) {
	users, err := store.Load[models.UserProfile](s, store.CollectionKnownUsers)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UID == userID {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
}

// ProfileOrPlaceholder resolves a uid, substituting the placeholder when
// the directory does not know it. Store errors still propagate.
func ProfileOrPlaceholder(s *store.Store, userID string) (models.UserProfile, error) {
	profile, err := GetUserProfile(s, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PlaceholderProfile(userID), nil
		}
		return models.UserProfile{}, err
	}
	return *profile, nil
}

// SearchUsers returns directory entries whose name or email contains the
// query, case-insensitively. An empty query matches nobody.
func SearchUsers(s *store.Store, query string) ([]models.UserProfile, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []models.UserProfile{}, nil
	}

	users, err := store.Load[models.UserProfile](s, store.CollectionKnownUsers)
	if err != nil {
		return nil, err
	}

	matches := make([]models.UserProfile, 0, len(users))
	for _, user := range users {
		if strings.Contains(strings.ToLower(user.Name), query) ||
			strings.Contains(strings.ToLower(user.Email), query) {
			matches = append(matches, user)
		}
	}
	return matches, nil
}

// ToggleFollow flips whether actorID follows targetID. Returns true when
// the toggle resulted in a follow.
func ToggleFollow(s *store.Store, actorID, targetID string) (bool, error) {
	if actorID == targetID {
		return false, fmt.Errorf("cannot follow yourself: %w", ErrInvalid)
	}

	records, err := store.Load[models.Following](s, store.CollectionFollowing)
	if err != nil {
		return false, err
	}

	idx := -1
	for i := range records {
		if records[i].UserID == actorID {
			idx = i
			break
		}
	}
	if idx == -1 {
		records = append(records, models.Following{UserID: actorID, FollowingIDs: []string{}})
		idx = len(records) - 1
	}

	ids, followed := toggleID(records[idx].FollowingIDs, targetID)
	records[idx].FollowingIDs = ids

	if err := store.Save(s, store.CollectionFollowing, records); err != nil {
		return false, err
	}
	return followed, nil
}

// IsFollowing reports whether actorID currently follows targetID.
func IsFollowing(s *store.Store, actorID, targetID string) (bool, error) {
	records, err := store.Load[models.Following](s, store.CollectionFollowing)
	if err != nil {
		return false, err
	}
	for _, record := range records {
		if record.UserID == actorID {
			return containsID(record.FollowingIDs, targetID), nil
		}
	}
	return false, nil
}

// FollowingProfiles resolves the users that userID follows. Uids missing
// from the directory are skipped.
func FollowingProfiles(s *store.Store, userID string) ([]models.UserProfile, error) {
	records, err := store.Load[models.Following](s, store.CollectionFollowing)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, record := range records {
		if record.UserID == userID {
			ids = record.FollowingIDs
			break
		}
	}
	return resolveProfiles(s, ids)
}

// FollowerProfiles derives who follows userID by reverse-scanning the
// follow records, then resolves them against the directory.
func FollowerProfiles(s *store.Store, userID string) ([]models.UserProfile, error) {
	records, err := store.Load[models.Following](s, store.CollectionFollowing)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for _, record := range records {
		if containsID(record.FollowingIDs, userID) {
			ids = append(ids, record.UserID)
		}
	}
	return resolveProfiles(s, ids)
}

func resolveProfiles(s *store.Store, ids []string) ([]models.UserProfile, error) {
	users, err := store.Load[models.UserProfile](s, store.CollectionKnownUsers)
	if err != nil {
		return nil, err
	}

	byUID := make(map[string]models.UserProfile, len(users))
	for _, user := range users {
		byUID[user.UID] = user
	}

	profiles := make([]models.UserProfile, 0, len(ids))
	for _, id := range ids {
		if profile, ok := byUID[id]; ok {
			profiles = append(profiles, profile)
		}
	}
	return profiles, nil
}
