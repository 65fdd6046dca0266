package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage represents one turn in a note's chat history
type ChatMessage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	NoteID    uuid.UUID `gorm:"type:uuid;not null;index" json:"note_id"`
	Role      string    `gorm:"not null" json:"role"` // "user" for ask, "assistant" for answer
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
