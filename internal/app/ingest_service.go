package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"docuchat/internal/ai"
	"docuchat/internal/model"
	"docuchat/internal/pkg/textsplit"
)

// ChunkInserter is the vector-index side of ingestion.
type ChunkInserter interface {
	CreateBatch(chunks []model.Chunk) error
}

// CatalogPublisher enqueues document catalog rows for async persistence.
type CatalogPublisher interface {
	Publish(ctx context.Context, doc model.Document) error
}

// ExtractFunc pulls plain text out of a PDF on disk.
type ExtractFunc func(path string) (string, error)

// IngestService turns an uploaded PDF into embedded chunks in the vector
// index, keyed by a freshly generated document id. An archival copy of the
// raw PDF is written to the object store up front and persists whether or not
// the rest of the pipeline succeeds.
type IngestService struct {
	objects   ObjectStore
	chunks    ChunkInserter
	publisher CatalogPublisher
	llm       *ai.Client
	embCfg    ai.EmbeddingConfig
	extract   ExtractFunc

	workDir      string
	chunkSize    int
	chunkOverlap int
}

func NewIngestService(
	objects ObjectStore,
	chunks ChunkInserter,
	publisher CatalogPublisher,
	llm *ai.Client,
	embCfg ai.EmbeddingConfig,
	extract ExtractFunc,
	workDir string,
	chunkSize, chunkOverlap int,
) *IngestService {
	if workDir == "" {
		workDir = "pdf_store"
	}
	return &IngestService{
		objects:      objects,
		chunks:       chunks,
		publisher:    publisher,
		llm:          llm,
		embCfg:       embCfg,
		extract:      extract,
		workDir:      workDir,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

type IngestInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

type IngestResult struct {
	DocumentID string `json:"pdf_uuid"`
	ArchiveKey string `json:"pdf_path"`
	ChunkCount int    `json:"chunk_count"`
}

// Ingest validates, archives, extracts, splits, embeds and indexes the PDF.
// The transient local copy is removed once the pipeline completes.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	if input.ContentType != "application/pdf" {
		return nil, ErrNotPDF
	}
	if len(input.Data) == 0 {
		return nil, ErrInvalidInput
	}

	docID := uuid.NewString()
	fileName := filepath.Base(input.FileName)
	archiveKey := fmt.Sprintf("pdf_store/%s_%s", docID, fileName)

	if err := os.MkdirAll(s.workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir failed: %w", err)
	}
	localPath := filepath.Join(s.workDir, fmt.Sprintf("%s_%s", docID, fileName))
	if err := os.WriteFile(localPath, input.Data, 0o644); err != nil {
		return nil, fmt.Errorf("write transient pdf failed: %w", err)
	}

	if err := s.objects.Put(ctx, archiveKey, input.Data); err != nil {
		return nil, err
	}

	text, err := s.extract(localPath)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text failed: %w", err)
	}

	pieces := textsplit.Split(text, s.chunkSize, s.chunkOverlap)
	if len(pieces) == 0 {
		return nil, ErrNoText
	}

	embeddings, err := s.llm.EmbedBatch(ctx, s.embCfg, pieces)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(pieces) {
		return nil, fmt.Errorf("embedding count mismatch: %d chunks, %d embeddings", len(pieces), len(embeddings))
	}

	rows := make([]model.Chunk, len(pieces))
	now := time.Now()
	for i := range pieces {
		rows[i] = model.Chunk{
			ID:         uuid.NewString(),
			DocumentID: docID,
			Content:    pieces[i],
			Embedding:  pgvector.NewVector(embeddings[i]),
			CreatedAt:  now,
		}
	}
	if err := s.chunks.CreateBatch(rows); err != nil {
		return nil, err
	}

	if err := os.Remove(localPath); err != nil {
		log.Printf("remove transient pdf %s failed: %v", localPath, err)
	}

	if s.publisher != nil {
		doc := model.Document{
			ID:         docID,
			Name:       fileName,
			ArchiveKey: archiveKey,
			ChunkCount: len(rows),
			CreatedAt:  now,
		}
		if err := s.publisher.Publish(ctx, doc); err != nil {
			log.Printf("publish catalog row for document %s failed: %v", docID, err)
		}
	}

	return &IngestResult{
		DocumentID: docID,
		ArchiveKey: archiveKey,
		ChunkCount: len(rows),
	}, nil
}
