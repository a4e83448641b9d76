package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"docuchat/internal/model"
	"docuchat/internal/platform/s3"
)

// ChatStore is the relational side of chat persistence.
type ChatStore interface {
	Upsert(chat *model.Chat) error
	ListByLastUpdate() ([]model.Chat, error)
	GetByID(id string) (*model.Chat, error)
	DeleteByID(id string) error
}

// ObjectStore holds transcript and PDF blobs. Get and Delete return an error
// satisfying errors.Is(err, s3.ErrNotFound) when the key does not exist.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// TranscriptCache fronts ObjectStore reads for listing. Optional.
type TranscriptCache interface {
	Get(ctx context.Context, chatID string) ([]model.ChatMessage, bool, error)
	Set(ctx context.Context, chatID string, messages []model.ChatMessage) error
	Delete(ctx context.Context, chatID string) error
}

// ChatStoreService saves, lists and deletes chat sessions across the
// relational store and the object store as one logical unit. There is no
// transaction spanning the two: a transcript blob whose row upsert fails
// afterwards is left behind, and deleting a chat never touches vector entries.
type ChatStoreService struct {
	chats   ChatStore
	objects ObjectStore
	cache   TranscriptCache
}

func NewChatStoreService(chats ChatStore, objects ObjectStore, cache TranscriptCache) *ChatStoreService {
	return &ChatStoreService{
		chats:   chats,
		objects: objects,
		cache:   cache,
	}
}

type SaveChatInput struct {
	ChatID   string
	ChatName string
	Messages []model.ChatMessage
	PDFName  string
	PDFPath  string
	PDFUUID  string
}

// ChatRecord is one entry of the chat listing: the metadata row joined with
// its transcript.
type ChatRecord struct {
	ID       string              `json:"id"`
	ChatName string              `json:"chat_name"`
	Messages []model.ChatMessage `json:"messages"`
	PDFName  string              `json:"pdf_name"`
	PDFPath  string              `json:"pdf_path"`
	PDFUUID  string              `json:"pdf_uuid"`
}

func transcriptKey(chatID string) string {
	return "chat_logs/" + chatID + ".json"
}

// SaveChat writes the transcript blob, then upserts the metadata row. Row
// conflict resolution (insert-or-update) is the database's.
func (s *ChatStoreService) SaveChat(ctx context.Context, input SaveChatInput) error {
	if input.ChatID == "" {
		return ErrInvalidInput
	}

	key := transcriptKey(input.ChatID)
	payload, err := json.MarshalIndent(input.Messages, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal transcript failed: %w", err)
	}
	if err := s.objects.Put(ctx, key, payload); err != nil {
		return err
	}

	chat := &model.Chat{
		ID:         input.ChatID,
		Name:       input.ChatName,
		FilePath:   key,
		PDFName:    input.PDFName,
		PDFPath:    input.PDFPath,
		PDFUUID:    input.PDFUUID,
		LastUpdate: time.Now(),
	}
	if err := s.chats.Upsert(chat); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, input.ChatID, input.Messages); err != nil {
			log.Printf("cache transcript for chat %s failed: %v", input.ChatID, err)
		}
	}
	return nil
}

// LoadChats returns every saved chat with its transcript, most recently
// updated first. Rows whose transcript is missing, empty or unreadable are
// skipped rather than failing the whole listing.
func (s *ChatStoreService) LoadChats(ctx context.Context) ([]ChatRecord, error) {
	rows, err := s.chats.ListByLastUpdate()
	if err != nil {
		return nil, err
	}

	records := make([]ChatRecord, 0, len(rows))
	for _, row := range rows {
		messages, ok := s.loadTranscript(ctx, row)
		if !ok {
			continue
		}
		records = append(records, ChatRecord{
			ID:       row.ID,
			ChatName: row.Name,
			Messages: messages,
			PDFName:  row.PDFName,
			PDFPath:  row.PDFPath,
			PDFUUID:  row.PDFUUID,
		})
	}
	return records, nil
}

func (s *ChatStoreService) loadTranscript(ctx context.Context, row model.Chat) ([]model.ChatMessage, bool) {
	if s.cache != nil {
		if cached, hit, err := s.cache.Get(ctx, row.ID); err == nil && hit {
			return cached, true
		}
	}

	data, err := s.objects.Get(ctx, row.FilePath)
	if err != nil {
		if errors.Is(err, s3.ErrNotFound) {
			log.Printf("transcript %s not found, skipping chat %s", row.FilePath, row.ID)
		} else {
			log.Printf("load transcript %s failed, skipping chat %s: %v", row.FilePath, row.ID, err)
		}
		return nil, false
	}
	if len(data) == 0 {
		log.Printf("transcript %s is empty, skipping chat %s", row.FilePath, row.ID)
		return nil, false
	}

	var messages []model.ChatMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		log.Printf("transcript %s is not valid JSON, skipping chat %s: %v", row.FilePath, row.ID, err)
		return nil, false
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, row.ID, messages); err != nil {
			log.Printf("cache transcript for chat %s failed: %v", row.ID, err)
		}
	}
	return messages, true
}

// DeleteChat removes the metadata row, then best-effort deletes the transcript
// blob and the archived PDF. Blobs already gone from the store are fine.
func (s *ChatStoreService) DeleteChat(ctx context.Context, chatID string) error {
	if chatID == "" {
		return ErrInvalidInput
	}

	row, err := s.chats.GetByID(chatID)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrChatNotFound
	}

	if err := s.chats.DeleteByID(chatID); err != nil {
		return err
	}

	s.deleteBlob(ctx, row.FilePath)
	if row.PDFPath != "" {
		s.deleteBlob(ctx, row.PDFPath)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, chatID); err != nil {
			log.Printf("evict transcript cache for chat %s failed: %v", chatID, err)
		}
	}
	return nil
}

func (s *ChatStoreService) deleteBlob(ctx context.Context, key string) {
	if err := s.objects.Delete(ctx, key); err != nil && !errors.Is(err, s3.ErrNotFound) {
		log.Printf("delete blob %s failed: %v", key, err)
	}
}
