// store.go
//
// The shared collection namespace behind the Prylics client-state model.
// Every entity list the clients synchronize (posts, conversations, circles,
// memberships, projects) lives here as one named JSON array.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/prylics/prylics-data/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Collection names. These form the complete namespace; nothing else is
// written to the store.
const (
	CollectionInitialPosts       = "initialPosts"
	CollectionUserPosts          = "userPosts"
	CollectionKnownUsers         = "knownUsers"
	CollectionConversations      = "conversations"
	CollectionFollowing          = "following"
	CollectionCircles            = "circles"
	CollectionCircleMemberships  = "circleMemberships"
	CollectionCircleChats        = "circleChats"
	CollectionProjects           = "projects"
	CollectionProjectDiscussions = "projectDiscussions"
)

// Store provides typed access to the named collections.
type Store struct {
	db *gorm.DB
}

// New creates a Store over an open gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Load reads the named collection and decodes it as a slice of T.
// An absent collection yields an empty slice, not an error. A collection
// that fails to decode is treated as absent and logged; readers must keep
// working even if a writer persisted garbage.
func Load[T any](s *Store, name string) ([]T, error) {
	var rec models.StoreCollection
	err := s.db.Where("collection_name = ?", name).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to load collection %s: %w", name, err)
	}

	if len(rec.Value.JSON) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(rec.Value.JSON, &items); err != nil {
		log.Printf("WARN collection %s is malformed, treating as empty: %v", name, err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the named collection with the given slice. The whole array
// is rewritten in one transaction; concurrent savers serialize on the row
// and the last write wins. A nil slice is stored as an empty array so
// readers never see JSON null.
func Save[T any](s *Store, name string, items []T) error {
	if items == nil {
		items = []T{}
	}

	value, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal collection %s: %w", name, err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		rec := models.StoreCollection{
			CollectionName: name,
		}
		if err := tx.Where("collection_name = ?", name).FirstOrCreate(&rec).Error; err != nil {
			return fmt.Errorf("failed to upsert collection %s: %w", name, err)
		}

		if err := tx.Model(&rec).Update("value", models.JSON{JSON: datatypes.JSON(value)}).Error; err != nil {
			return fmt.Errorf("failed to write collection %s: %w", name, err)
		}
		return nil
	})
}

// Exists reports whether the named collection has ever been written.
// Seed bootstrap uses this to distinguish "never seeded" from an
// intentionally emptied collection.
func Exists(s *Store, name string) (bool, error) {
	var count int64
	err := s.db.Model(&models.StoreCollection{}).
		Where("collection_name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check collection %s: %w", name, err)
	}
	return count > 0, nil
}
