// comments.go
//
// Comment tree merge. Comments form an arbitrarily deep reply tree embedded
// in the post; merging appends to the matched parent node and recounts the
// whole tree.

package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/store"
)

// AddComment appends a comment to a post's reply tree and persists the
// collection that holds the post. An empty parentID means a new root
// comment. A parentID that matches no node leaves the tree unchanged and
// drops the comment, matching what clients already tolerate. Returns the
// updated post.
func AddComment(s *store.Store, postID string, author models.UserProfile, text, parentID string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("comment text is empty: %w", ErrInvalid)
	}

	comment := models.Comment{
		ID:        ulid.Make().String(),
		Author:    author,
		Text:      text,
		Timestamp: time.Now().UTC(),
		Replies:   []models.Comment{},
	}

	for _, name := range []string{store.CollectionUserPosts, store.CollectionInitialPosts} {
		posts, err := store.Load[models.Post](s, name)
		if err != nil {
			return nil, err
		}
		for i := range posts {
			if posts[i].ID != postID {
				continue
			}

			if parentID == "" {
				posts[i].Comments = append(posts[i].Comments, comment)
			} else {
				insertReply(posts[i].Comments, parentID, comment)
			}
			posts[i].CommentCount = CountComments(posts[i].Comments)

			if err := store.Save(s, name, posts); err != nil {
				return nil, err
			}
			return &posts[i], nil
		}
	}

	return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
}

// insertReply walks the tree depth-first and appends reply to the first
// node whose id matches parentID. Reports whether a parent was found.
func insertReply(comments []models.Comment, parentID string, reply models.Comment) bool {
	for i := range comments {
		if comments[i].ID == parentID {
			comments[i].Replies = append(comments[i].Replies, reply)
			return true
		}
		if insertReply(comments[i].Replies, parentID, reply) {
			return true
		}
	}
	return false
}

// CountComments counts every node in the reply tree, descendants included.
func CountComments(comments []models.Comment) int {
	count := 0
	for i := range comments {
		count += 1 + CountComments(comments[i].Replies)
	}
	return count
}
