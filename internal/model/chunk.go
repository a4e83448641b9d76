package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDim is the vector width of the configured embedding model
// (text-embedding-ada-002 family).
const EmbeddingDim = 1536

// Chunk is one embedded text fragment of an ingested PDF. DocumentID is the
// pdf_uuid handed back by the upload endpoint and is the only retrieval filter.
type Chunk struct {
	ID         string          `gorm:"primaryKey;size:64" json:"id"`
	DocumentID string          `gorm:"size:64;not null;index" json:"document_id"`
	Content    string          `gorm:"type:text;not null" json:"content"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
}
