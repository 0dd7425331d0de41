// seed.go
//
// First-run bootstrap: writes the embedded demo posts into initialPosts
// and primes the known-users directory with their authors. Runs only when
// the collections have never been written, so an operator emptying them
// later sticks.

package services

import (
	"log"

	"github.com/prylics/prylics-data/internal/models"
	"github.com/prylics/prylics-data/internal/store"
)

// SeedInitialData seeds initialPosts and knownUsers from the embedded
// demo content when they are absent.
func SeedInitialData(s *store.Store, seedPosts []models.Post) error {
	seeded, err := store.Exists(s, store.CollectionInitialPosts)
	if err != nil {
		return err
	}
	if !seeded {
		if err := store.Save(s, store.CollectionInitialPosts, seedPosts); err != nil {
			return err
		}
		log.Printf("Seeded %d demo posts", len(seedPosts))
	}

	primed, err := store.Exists(s, store.CollectionKnownUsers)
	if err != nil {
		return err
	}
	if !primed {
		seen := make(map[string]struct{}, len(seedPosts))
		authors := make([]models.UserProfile, 0, len(seedPosts))
		for _, post := range seedPosts {
			if _, dup := seen[post.Author.UID]; dup {
				continue
			}
			seen[post.Author.UID] = struct{}{}
			authors = append(authors, post.Author)
		}
		if err := store.Save(s, store.CollectionKnownUsers, authors); err != nil {
			return err
		}
		log.Printf("Primed known users with %d demo authors", len(authors))
	}

	return nil
}
