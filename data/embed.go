package data

import (
	_ "embed"
	"encoding/json"

	"github.com/prylics/prylics-data/internal/models"
)

//go:embed seed/posts.json
var seedPostsJSON []byte

// SeedPosts returns the embedded demo posts used to bootstrap the
// initialPosts collection on first run.
func SeedPosts() ([]models.Post, error) {
	var posts []models.Post
	if err := json.Unmarshal(seedPostsJSON, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
