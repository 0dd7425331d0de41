// collection.go
//
// Storage record for the named JSON collections that back the Prylics
// client-state model. Each collection is one row: the whole entity list
// serialized as a JSON array. Writes replace the array; last write wins.

package models

import "time"

// StoreCollection maps a collection name to its serialized entity list.
type StoreCollection struct {
	CollectionID   uint64    `gorm:"column:collection_id;primaryKey;autoIncrement" json:"collectionId"`
	CollectionName string    `gorm:"column:collection_name;size:255;not null;uniqueIndex" json:"collectionName"`
	Value          JSON      `gorm:"column:value" json:"value"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for StoreCollection
func (StoreCollection) TableName() string {
	return "store_collections"
}
