package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account with a credit balance.
// Credits is only ever mutated through ledger operations so that it stays
// equal to the signed sum of the user's CreditTransaction rows.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	Credits   int64     `gorm:"not null;default:0" json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
