package services_test

import (
	"testing"
	"time"

	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/services"
)

func TestAssembleFeed_Ordering(t *testing.T) {
	now := time.Now().UTC()
	seed := []models.Post{
		{ID: "seed-old", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "seed-new", CreatedAt: now.Add(-1 * time.Minute)},
	}
	user := []models.Post{
		{ID: "user-newest", CreatedAt: now},
	}

	feed := services.AssembleFeed(seed, user)
	if len(feed) != 3 {
		t.Fatalf("Expected 3 posts, got %d", len(feed))
	}

	want := []string{"user-newest", "seed-new", "seed-old"}
	for i, id := range want {
		if feed[i].ID != id {
			t.Errorf("Expected %s at position %d, got %s", id, i, feed[i].ID)
		}
	}
}

func TestAssembleFeed_DedupeUserCopyWins(t *testing.T) {
	now := time.Now().UTC()
	seed := []models.Post{
		{ID: "shared", Content: "seed copy", CreatedAt: now},
	}
	user := []models.Post{
		{ID: "shared", Content: "user copy", CreatedAt: now},
	}

	feed := services.AssembleFeed(seed, user)
	if len(feed) != 1 {
		t.Fatalf("Expected 1 post after dedupe, got %d", len(feed))
	}
	if feed[0].Content != "user copy" {
		t.Errorf("Expected the user copy to win, got %q", feed[0].Content)
	}
}

func TestAssembleFeed_MissingTimestampSortsLast(t *testing.T) {
	now := time.Now().UTC()
	seed := []models.Post{
		{ID: "no-instant"}, // zero CreatedAt
		{ID: "dated", CreatedAt: now},
	}

	feed := services.AssembleFeed(seed, nil)
	if feed[len(feed)-1].ID != "no-instant" {
		t.Errorf("Expected post without a creation instant to sort last, got %s", feed[len(feed)-1].ID)
	}
}

func TestFilterPostsByType(t *testing.T) {
	posts := []models.Post{
		{ID: "a", Type: models.PostTypeResearch},
		{ID: "b", Type: models.PostTypeIdea},
		{ID: "c", Type: models.PostTypeResearch},
	}

	filtered := services.FilterPostsByType(posts, models.PostTypeResearch)
	if len(filtered) != 2 {
		t.Fatalf("Expected 2 research posts, got %d", len(filtered))
	}
	for _, post := range filtered {
		if post.Type != models.PostTypeResearch {
			t.Errorf("Unexpected type %s in filtered posts", post.Type)
		}
	}
	if len(posts) != 3 {
		t.Errorf("Expected input slice untouched, got %d", len(posts))
	}
}
