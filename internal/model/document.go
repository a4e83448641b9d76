package model

import "time"

// Document is the catalog row for an ingested PDF. It is persisted
// asynchronously by the catalog worker and is advisory only; retrieval never
// consults it.
type Document struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	Name       string    `gorm:"size:256;not null" json:"name"`
	ArchiveKey string    `gorm:"size:512;not null" json:"archive_key"`
	ChunkCount int       `gorm:"not null" json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}
