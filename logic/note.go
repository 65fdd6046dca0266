package logic

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hefeholuwa/secure-notes-vault/dao"
	"github.com/hefeholuwa/secure-notes-vault/models"
)

// NoteLogic handles note CRUD. None of these operations touch the credit
// ledger.
type NoteLogic struct {
	noteDAO *dao.NoteDAO
}

func NewNoteLogic(noteDAO *dao.NoteDAO) *NoteLogic {
	return &NoteLogic{noteDAO: noteDAO}
}

func (l *NoteLogic) CreateNote(userID uuid.UUID, title, content string, tags *string) (*models.Note, error) {
	return l.noteDAO.CreateNote(userID, title, content, tags)
}

func (l *NoteLogic) GetNotes(userID uuid.UUID) ([]models.Note, error) {
	return l.noteDAO.GetNotesByUser(userID)
}

func (l *NoteLogic) GetNote(userID, noteID uuid.UUID) (*models.Note, error) {
	note, err := l.noteDAO.GetNoteByIDAndUser(noteID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

func (l *NoteLogic) UpdateNote(userID, noteID uuid.UUID, update dao.NoteUpdate) (*models.Note, error) {
	note, err := l.noteDAO.UpdateNote(noteID, userID, update)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

func (l *NoteLogic) DeleteNote(userID, noteID uuid.UUID) error {
	if err := l.noteDAO.DeleteNote(noteID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return err
	}
	return nil
}
