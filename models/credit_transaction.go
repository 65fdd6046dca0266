package models

import (
	"time"

	"github.com/google/uuid"
)

// Ledger entry kinds. The trail is append-only: rows are never updated or
// deleted once written.
const (
	TxGrant     = "GRANT"
	TxDeduction = "DEDUCTION"
	TxRefund    = "REFUND"
)

// Service tags recorded on ledger entries.
const (
	ServiceSignupBonus = "SIGNUP_BONUS"
	ServiceAITag       = "AI_TAG"
	ServiceAIChat      = "AI_CHAT"
)

// CreditTransaction is one immutable entry in a user's credit ledger.
// Amount is a signed delta; a user's balance reconciles to the sum of its
// entries at all times.
type CreditTransaction struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Type      string    `gorm:"not null" json:"type"`
	Service   string    `gorm:"not null" json:"service"`
	CreatedAt time.Time `json:"created_at"`
}
