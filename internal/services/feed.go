// feed.go
//
// Feed assembly: user-authored posts merged with the seeded demo posts into
// one timeline.

package services

import (
	"sort"

	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/store"
)

// AssembleFeed merges user posts with seed posts into a single timeline.
// User posts come first so that when a post id appears in both collections
// the user's copy wins the dedupe. The result is ordered newest first;
// posts without a creation instant sort last.
func AssembleFeed(seedPosts, userPosts []models.Post) []models.Post {
	combined := make([]models.Post, 0, len(seedPosts)+len(userPosts))
	combined = append(combined, userPosts...)
	combined = append(combined, seedPosts...)

	seen := make(map[string]struct{}, len(combined))
	feed := make([]models.Post, 0, len(combined))
	for _, post := range combined {
		if _, dup := seen[post.ID]; dup {
			continue
		}
		seen[post.ID] = struct{}{}
		feed = append(feed, post)
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})

	return feed
}

// FilterPostsByType returns the posts matching the given type. The input
// slice is not modified.
func FilterPostsByType(posts []models.Post, postType models.PostType) []models.Post {
	filtered := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if post.Type == postType {
			filtered = append(filtered, post)
		}
	}
	return filtered
}

// LoadFeed assembles the feed from the store.
func LoadFeed(s *store.Store) ([]models.Post, error) {
	seedPosts, err := store.Load[models.Post](s, store.CollectionInitialPosts)
	if err != nil {
		return nil, err
	}
	userPosts, err := store.Load[models.Post](s, store.CollectionUserPosts)
	if err != nil {
		return nil, err
	}
	return AssembleFeed(seedPosts, userPosts), nil
}

// LoadFundedPosts returns the feed entries that carry a crowdfunding
// sub-record, for the crowdfunding listing.
func LoadFundedPosts(s *store.Store) ([]models.Post, error) {
	feed, err := LoadFeed(s)
	if err != nil {
		return nil, err
	}
	funded := make([]models.Post, 0, len(feed))
	for _, post := range feed {
		if post.Funding != nil {
			funded = append(funded, post)
		}
	}
	return funded, nil
}
