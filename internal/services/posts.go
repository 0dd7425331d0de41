// posts.go
//
// Post lifecycle: create, locate, like, delete. User posts and seeded demo
// posts live in separate collections but behave identically once created.

package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/store"
)

// PostInput is the caller-supplied part of a new post.
type PostInput struct {
	Type        models.PostType
	Content     string
	Tags        []string
	ImageURL    string
	FundingGoal uint64
}

// CreatePost validates the input, stamps identity and timestamps, and
// prepends the post to the user posts collection so it leads the feed.
func CreatePost(s *store.Store, author models.UserProfile, input PostInput) (*models.Post, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("unknown post type %q: %w", input.Type, ErrInvalid)
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, fmt.Errorf("post content is empty: %w", ErrInvalid)
	}

	now := time.Now().UTC()
	post := models.Post{
		ID:           uuid.NewString(),
		Author:       author,
		CreatorID:    author.UID,
		Type:         input.Type,
		Timestamp:    now.Format("Jan 2, 2006 at 3:04 PM"),
		CreatedAt:    now,
		Content:      content,
		Tags:         input.Tags,
		Likes:        0,
		Comments:     []models.Comment{},
		CommentCount: 0,
		ImageURL:     input.ImageURL,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if input.FundingGoal > 0 {
		post.Funding = &models.Funding{Goal: input.FundingGoal, Raised: 0}
	}

	userPosts, err := store.Load[models.Post](s, store.CollectionUserPosts)
	if err != nil {
		return nil, err
	}
	userPosts = append([]models.Post{post}, userPosts...)
	if err := store.Save(s, store.CollectionUserPosts, userPosts); err != nil {
		return nil, err
	}

	return &post, nil
}

// GetPost looks up a post by id, user posts first then seed posts.
func GetPost(s *store.Store, postID string) (*models.Post, error) {
	for _, name := range []string{store.CollectionUserPosts, store.CollectionInitialPosts} {
		posts, err := store.Load[models.Post](s, name)
		if err != nil {
			return nil, err
		}
		for i := range posts {
			if posts[i].ID == postID {
				return &posts[i], nil
			}
		}
	}
	return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
}

// DeletePost removes a post from whichever collection holds it. Only the
// creator may delete.
func DeletePost(s *store.Store, actorID, postID string) error {
	for _, name := range []string{store.CollectionUserPosts, store.CollectionInitialPosts} {
		posts, err := store.Load[models.Post](s, name)
		if err != nil {
			return err
		}
		for i := range posts {
			if posts[i].ID != postID {
				continue
			}
			if posts[i].CreatorID != actorID {
				return fmt.Errorf("post %s is not owned by %s: %w", postID, actorID, ErrForbidden)
			}
			remaining := append(posts[:i:i], posts[i+1:]...)
			return store.Save(s, name, remaining)
		}
	}
	return fmt.Errorf("post %s: %w", postID, ErrNotFound)
}

// LikePost adjusts a post's like count by one in either direction and
// persists it. The count never goes below zero. Returns the updated post.
func LikePost(s *store.Store, postID string, unlike bool) (*models.Post, error) {
	for _, name := range []string{store.CollectionUserPosts, store.CollectionInitialPosts} {
		posts, err := store.Load[models.Post](s, name)
		if err != nil {
			return nil, err
		}
		for i := range posts {
			if posts[i].ID != postID {
				continue
			}
			if unlike {
				if posts[i].Likes > 0 {
					posts[i].Likes--
				}
			} else {
				posts[i].Likes++
			}
			if err := store.Save(s, name, posts); err != nil {
				return nil, err
			}
			return &posts[i], nil
		}
	}
	return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
}

// ListPostsByAuthor returns the feed entries created by the given user,
// newest first.
func ListPostsByAuthor(s *store.Store, userID string) ([]models.Post, error) {
	feed, err := LoadFeed(s)
	if err != nil {
		return nil, err
	}
	authored := make([]models.Post, 0, len(feed))
	for _, post := range feed {
		if post.CreatorID == userID || post.Author.UID == userID {
			authored = append(authored, post)
		}
	}
	return authored, nil
}
