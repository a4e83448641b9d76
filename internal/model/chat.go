package model

import "time"

// Chat is the metadata row for a saved conversation. The transcript itself
// lives in the object store at FilePath; the row only records where to find it
// and which ingested PDF, if any, the conversation is grounded in.
type Chat struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	Name       string    `gorm:"size:256;not null" json:"name"`
	FilePath   string    `gorm:"size:512;not null" json:"file_path"`
	PDFName    string    `gorm:"size:256" json:"pdf_name"`
	PDFPath    string    `gorm:"size:512" json:"pdf_path"`
	PDFUUID    string    `gorm:"size:64;index" json:"pdf_uuid"`
	LastUpdate time.Time `gorm:"not null;index" json:"last_update"`
}

func (Chat) TableName() string {
	return "advanced_chats"
}

// ChatMessage is one turn of a saved transcript.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
