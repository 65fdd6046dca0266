package dao

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hefeholuwa/secure-notes-vault/models"
)

// NoteDAO handles note-related database operations
type NoteDAO struct {
	db *gorm.DB
}

func NewNoteDAO(db *gorm.DB) *NoteDAO {
	return &NoteDAO{db: db}
}

// CreateNote creates a new note for a user
func (d *NoteDAO) CreateNote(userID uuid.UUID, title, content string, tags *string) (*models.Note, error) {
	note := &models.Note{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   title,
		Content: content,
		Tags:    tags,
	}
	if err := d.db.Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

// GetNotesByUser retrieves all notes owned by a user, newest first
func (d *NoteDAO) GetNotesByUser(userID uuid.UUID) ([]models.Note, error) {
	var notes []models.Note
	if err := d.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNoteByIDAndUser retrieves a note only if it belongs to the given user.
// A missing note and a foreign note both surface as gorm.ErrRecordNotFound so
// existence is never leaked to non-owners.
func (d *NoteDAO) GetNoteByIDAndUser(noteID, userID uuid.UUID) (*models.Note, error) {
	var note models.Note
	if err := d.db.Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

// NoteUpdate carries the optional fields of a partial note update. Tags is a
// double pointer so "clear the tags" (set NULL) and "leave tags alone" stay
// distinguishable.
type NoteUpdate struct {
	Title   *string
	Content *string
	Tags    **string
}

// UpdateNote applies a partial update with the owner guard in the WHERE
// clause; zero affected rows means not found (or not owned).
func (d *NoteDAO) UpdateNote(noteID, userID uuid.UUID, update NoteUpdate) (*models.Note, error) {
	fields := map[string]interface{}{}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Content != nil {
		fields["content"] = *update.Content
	}
	if update.Tags != nil {
		fields["tags"] = *update.Tags
	}

	res := d.db.Model(&models.Note{}).
		Where("id = ? AND user_id = ?", noteID, userID).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return d.GetNoteByIDAndUser(noteID, userID)
}

// DeleteNote deletes a note with the owner guard in the WHERE clause
func (d *NoteDAO) DeleteNote(noteID, userID uuid.UUID) error {
	res := d.db.Where("id = ? AND user_id = ?", noteID, userID).Delete(&models.Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
