package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hefeholuwa/secure-notes-vault/dao"
	"github.com/hefeholuwa/secure-notes-vault/logic"
	"github.com/hefeholuwa/secure-notes-vault/pkg"
)

// AIController handles the credit-gated AI requests
type AIController struct {
	aiLogic *logic.AILogic
}

func NewAIController(aiLogic *logic.AILogic) *AIController {
	return &AIController{aiLogic: aiLogic}
}

// TagNote handles POST /api/notes/:id/tags
func (c *AIController) TagNote(ctx *gin.Context) {
	userID, noteID, ok := noteRequest(ctx)
	if !ok {
		return
	}

	tags, err := c.aiLogic.TagNote(userID, noteID)
	if err != nil {
		writeAIError(ctx, err, "AI tag generation failed. Please try again later.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"tags": tags})
}

// ChatWithNote handles POST /api/notes/:id/chat
func (c *AIController) ChatWithNote(ctx *gin.Context) {
	type Request struct {
		Message string `json:"message" binding:"required,max=2000"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}
	userID, noteID, ok := noteRequest(ctx)
	if !ok {
		return
	}

	response, err := c.aiLogic.ChatWithNote(userID, noteID, message)
	if err != nil {
		writeAIError(ctx, err, "AI chat failed. Please try again later.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"response": response})
}

// GetChatHistory handles GET /api/notes/:id/chat
func (c *AIController) GetChatHistory(ctx *gin.Context) {
	userID, noteID, ok := noteRequest(ctx)
	if !ok {
		return
	}

	messages, err := c.aiLogic.ChatHistory(userID, noteID)
	if err != nil {
		if errors.Is(err, logic.ErrNoteNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chat history"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"messages": messages})
}

// writeAIError maps the failure taxonomy of a paid AI action onto HTTP:
// missing/foreign note -> 404, failed reservation -> 402, rate-limited
// upstream -> 429, other upstream failures -> 502, the rest -> 500.
func writeAIError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, logic.ErrNoteNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
	case errors.Is(err, dao.ErrInsufficientCredits):
		ctx.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient credits for this operation."})
	default:
		var upstream *pkg.UpstreamError
		if errors.As(err, &upstream) {
			if upstream.RateLimited() {
				ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "The AI is busy. Please wait a few seconds and try again."})
				return
			}
			ctx.JSON(http.StatusBadGateway, gin.H{"error": fallback})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
