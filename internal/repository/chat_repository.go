package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"docuchat/internal/model"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Upsert inserts the chat row or, on id conflict, refreshes every mutable
// column. Conflict resolution is delegated to the database.
func (r *ChatRepository) Upsert(chat *model.Chat) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "file_path", "pdf_name", "pdf_path", "pdf_uuid", "last_update",
		}),
	}).Create(chat).Error
	if err != nil {
		return fmt.Errorf("upsert chat failed: %w", err)
	}
	return nil
}

// ListByLastUpdate returns all chat rows, most recently updated first.
func (r *ChatRepository) ListByLastUpdate() ([]model.Chat, error) {
	var chats []model.Chat
	if err := r.db.Order("last_update DESC").Find(&chats).Error; err != nil {
		return nil, fmt.Errorf("list chats failed: %w", err)
	}
	return chats, nil
}

// GetByID returns the chat row, or nil when no row exists.
func (r *ChatRepository) GetByID(id string) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.Where("id = ?", id).First(&chat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chat failed: %w", err)
	}
	return &chat, nil
}

func (r *ChatRepository) DeleteByID(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Chat{}).Error; err != nil {
		return fmt.Errorf("delete chat failed: %w", err)
	}
	return nil
}
