package dao

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hefeholuwa/secure-notes-vault/models"
)

// ChatMessageDAO handles chat-turn database operations
type ChatMessageDAO struct {
	db *gorm.DB
}

func NewChatMessageDAO(db *gorm.DB) *ChatMessageDAO {
	return &ChatMessageDAO{db: db}
}

// CreateMessage appends a turn to a note's chat history
func (d *ChatMessageDAO) CreateMessage(noteID uuid.UUID, role, content string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		NoteID:  noteID,
		Role:    role,
		Content: content,
	}
	if err := d.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// GetMessagesByNoteID retrieves all turns of a note, oldest first
func (d *ChatMessageDAO) GetMessagesByNoteID(noteID uuid.UUID) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	if err := d.db.Where("note_id = ?", noteID).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// GetRecentMessages retrieves the newest limit turns of a note, returned in
// chronological order.
func (d *ChatMessageDAO) GetRecentMessages(noteID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	if err := d.db.Where("note_id = ?", noteID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	// Reverse into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
