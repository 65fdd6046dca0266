package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hefeholuwa/secure-notes-vault/dao"
	"github.com/hefeholuwa/secure-notes-vault/logic"
	"github.com/hefeholuwa/secure-notes-vault/middleware"
)

// NoteController handles note CRUD requests
type NoteController struct {
	noteLogic *logic.NoteLogic
}

func NewNoteController(noteLogic *logic.NoteLogic) *NoteController {
	return &NoteController{noteLogic: noteLogic}
}

// CreateNote handles POST /api/notes
func (c *NoteController) CreateNote(ctx *gin.Context) {
	type Request struct {
		Title   string  `json:"title" binding:"required,min=1,max=500"`
		Content string  `json:"content" binding:"required,min=1,max=1000000"`
		Tags    *string `json:"tags" binding:"omitempty,max=2000"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	note, err := c.noteLogic.CreateNote(userID, req.Title, req.Content, req.Tags)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
		return
	}

	ctx.JSON(http.StatusCreated, note)
}

// GetNotes handles GET /api/notes
func (c *NoteController) GetNotes(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	notes, err := c.noteLogic.GetNotes(userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notes"})
		return
	}

	ctx.JSON(http.StatusOK, notes)
}

// GetNote handles GET /api/notes/:id
func (c *NoteController) GetNote(ctx *gin.Context) {
	userID, noteID, ok := noteRequest(ctx)
	if !ok {
		return
	}

	note, err := c.noteLogic.GetNote(userID, noteID)
	if err != nil {
		if errors.Is(err, logic.ErrNoteNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch note"})
		return
	}

	ctx.JSON(http.StatusOK, note)
}

// UpdateNote handles PATCH /api/notes/:id
func (c *NoteController) UpdateNote(ctx *gin.Context) {
	type Request struct {
		Title   *string `json:"title" binding:"omitempty,min=1,max=500"`
		Content *string `json:"content" binding:"omitempty,min=1,max=1000000"`
		Tags    *string `json:"tags" binding:"omitempty,max=2000"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}
	if req.Title == nil && req.Content == nil && req.Tags == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "At least one of [title, content, tags] must be provided"})
		return
	}
	userID, noteID, ok := noteRequest(ctx)
	if !ok {
		return
	}

	update := dao.NoteUpdate{Title: req.Title, Content: req.Content}
	if req.Tags != nil {
		tags := req.Tags
		if *tags == "" {
			tags = nil // empty string clears the tags column
		}
		update.Tags = &tags
	}

	note, err := c.noteLogic.UpdateNote(userID, noteID, update)
	if err != nil {
		if errors.Is(err, logic.ErrNoteNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
		return
	}

	ctx.JSON(http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/:id
func (c *NoteController) DeleteNote(ctx *gin.Context) {
	userID, noteID, ok := noteRequest(ctx)
	if !ok {
		return
	}

	if err := c.noteLogic.DeleteNote(userID, noteID); err != nil {
		if errors.Is(err, logic.ErrNoteNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// noteRequest extracts the authenticated user and the note id path parameter,
// writing the error response itself when either is missing.
func noteRequest(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, uuid.Nil, false
	}
	noteID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note ID"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, noteID, true
}
