// data.go
//
// Seed helpers for tests that need collections pre-populated in the store.

package helpers

import (
	"testing"
	"time"

	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/store"
)

// SaveCollection writes entities into a named collection, failing the test
// on error.
func SaveCollection[T any](t *testing.T, s *store.Store, name string, entities []T) {
	t.Helper()
	if err := store.Save(s, name, entities); err != nil {
		t.Fatalf("Failed to save collection %s: %v", name, err)
	}
}

// TestProfile builds a deterministic user profile for a uid.
func TestProfile(uid, name string) models.UserProfile {
	return models.UserProfile{
		UID:        uid,
		Name:       name,
		Email:      uid + "@example.com",
		AvatarURL:  "https://placehold.co/100x100.png",
		ProfileURL: "/profile/" + uid,
	}
}

// TestPost builds a post authored by the given profile at the given time.
func TestPost(id string, author models.UserProfile, postType models.PostType, content string, createdAt time.Time) models.Post {
	return models.Post{
		ID:        id,
		Author:    author,
		CreatorID: author.UID,
		Type:      postType,
		Timestamp: createdAt.Format("Jan 2, 2006 at 3:04 PM"),
		CreatedAt: createdAt,
		Content:   content,
		Tags:      []string{},
		Comments:  []models.Comment{},
	}
}
