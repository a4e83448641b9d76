package repository

import (
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"docuchat/internal/model"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) CreateBatch(chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := r.db.Create(&chunks).Error; err != nil {
		return fmt.Errorf("create chunks batch failed: %w", err)
	}
	return nil
}

// SearchByDocumentID runs nearest-neighbor retrieval over the chunks of one
// document, ordered by cosine distance to the query embedding.
func (r *ChunkRepository) SearchByDocumentID(documentID string, query []float32, k int) ([]model.Chunk, error) {
	if k <= 0 {
		return nil, nil
	}
	var chunks []model.Chunk
	err := r.db.
		Where("document_id = ?", documentID).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "embedding <=> ?",
			Vars:               []any{pgvector.NewVector(query)},
			WithoutParentheses: true,
		}}).
		Limit(k).
		Find(&chunks).Error
	if err != nil {
		return nil, fmt.Errorf("search chunks failed: %w", err)
	}
	return chunks, nil
}

func (r *ChunkRepository) DeleteByDocumentID(documentID string) error {
	if err := r.db.Where("document_id = ?", documentID).Delete(&model.Chunk{}).Error; err != nil {
		return fmt.Errorf("delete chunks by document failed: %w", err)
	}
	return nil
}
