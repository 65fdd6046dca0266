package logic

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hefeholuwa/secure-notes-vault/dao"
	"github.com/hefeholuwa/secure-notes-vault/models"
	"github.com/hefeholuwa/secure-notes-vault/pkg"
)

// Credit cost per AI action.
const (
	TagCost  = 1
	ChatCost = 2
)

// AILogic orchestrates the paid AI actions on a note: ownership check, credit
// reservation, gateway call, persistence. Validation and ownership failures
// short-circuit before any credit is spent; the ledger reservation happens
// before any AI cost is incurred.
type AILogic struct {
	noteDAO     *dao.NoteDAO
	messageDAO  *dao.ChatMessageDAO
	creditLogic *CreditLogic
	gateway     *Gateway
}

func NewAILogic(
	noteDAO *dao.NoteDAO,
	messageDAO *dao.ChatMessageDAO,
	creditLogic *CreditLogic,
	gateway *Gateway,
) *AILogic {
	return &AILogic{
		noteDAO:     noteDAO,
		messageDAO:  messageDAO,
		creditLogic: creditLogic,
		gateway:     gateway,
	}
}

// TagNote extracts tags from a note's content. Costs TagCost credits. Credits
// are not refunded when the model call fails: the deduction pays for the
// attempt.
func (l *AILogic) TagNote(userID, noteID uuid.UUID) ([]string, error) {
	note, err := l.ownedNote(userID, noteID)
	if err != nil {
		return nil, err
	}

	if err := l.creditLogic.Deduct(userID, TagCost, models.ServiceAITag); err != nil {
		return nil, err
	}

	tags, err := l.gateway.ExtractTags(note.Content)
	pkg.AIRequests.WithLabelValues(models.ServiceAITag, outcomeLabel(err)).Inc()
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ChatWithNote answers a question about a note. Costs ChatCost credits.
// The user and assistant turns are persisted as two sequential writes after a
// successful model call; persistence failures are logged and the response is
// still returned, so chat history is best-effort.
func (l *AILogic) ChatWithNote(userID, noteID uuid.UUID, message string) (string, error) {
	note, err := l.ownedNote(userID, noteID)
	if err != nil {
		return "", err
	}

	recent, err := l.messageDAO.GetRecentMessages(noteID, maxHistoryTurns)
	if err != nil {
		return "", err
	}

	if err := l.creditLogic.Deduct(userID, ChatCost, models.ServiceAIChat); err != nil {
		return "", err
	}

	history := collapseHistory(recent)

	answer, err := l.gateway.AskNote(note.Content, message, history)
	pkg.AIRequests.WithLabelValues(models.ServiceAIChat, outcomeLabel(err)).Inc()
	if err != nil {
		return "", err
	}

	if _, err := l.messageDAO.CreateMessage(noteID, "user", message); err != nil {
		slog.Error("failed to persist user chat turn", "note_id", noteID, "error", err)
		return answer, nil
	}
	if _, err := l.messageDAO.CreateMessage(noteID, "assistant", answer); err != nil {
		slog.Error("failed to persist assistant chat turn", "note_id", noteID, "error", err)
	}

	return answer, nil
}

// ChatHistory returns all turns of a note's conversation, oldest first
func (l *AILogic) ChatHistory(userID, noteID uuid.UUID) ([]models.ChatMessage, error) {
	if _, err := l.ownedNote(userID, noteID); err != nil {
		return nil, err
	}
	return l.messageDAO.GetMessagesByNoteID(noteID)
}

func (l *AILogic) ownedNote(userID, noteID uuid.UUID) (*models.Note, error) {
	note, err := l.noteDAO.GetNoteByIDAndUser(noteID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

// collapseHistory maps stored turns to request messages with strictly
// alternating roles: consecutive same-role turns collapse to the first of the
// run, and a trailing user turn is dropped so the new question can always be
// appended as the next user turn.
func collapseHistory(messages []models.ChatMessage) []pkg.RequestMessage {
	history := []pkg.RequestMessage{}
	lastRole := "system" // system is followed by user
	for _, msg := range messages {
		role := "assistant"
		if msg.Role == "user" {
			role = "user"
		}
		if role != lastRole {
			history = append(history, pkg.RequestMessage{Role: role, Content: msg.Content})
			lastRole = role
		}
	}

	if len(history) > 0 && history[len(history)-1].Role != "assistant" {
		history = history[:len(history)-1]
	}
	return history
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var upstream *pkg.UpstreamError
	if errors.As(err, &upstream) && upstream.RateLimited() {
		return "rate_limited"
	}
	return "upstream_error"
}
