package dao

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hefeholuwa/secure-notes-vault/models"
)

// ErrInsufficientCredits is returned when a deduction would push the balance
// below zero. It is a user-facing outcome, not a system error.
var ErrInsufficientCredits = errors.New("insufficient credits for this operation")

// CreditDAO handles the credit ledger: the balance column on users plus the
// append-only credit_transactions audit trail.
type CreditDAO struct {
	db *gorm.DB
}

func NewCreditDAO(db *gorm.DB) *CreditDAO {
	return &CreditDAO{db: db}
}

// Deduct atomically checks and decrements a user's balance and appends the
// matching DEDUCTION entry. The check-and-decrement is a single conditional
// UPDATE guarded by "credits >= amount"; two concurrent deductions can never
// both succeed against a balance that only covers one. If the guard matches
// zero rows (balance too low or user absent) the transaction rolls back and
// no entry is written.
func (d *CreditDAO) Deduct(userID uuid.UUID, amount int64, service string) error {
	if amount <= 0 {
		return fmt.Errorf("deduct amount must be positive, got %d", amount)
	}
	return d.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND credits >= ?", userID, amount).
			UpdateColumn("credits", gorm.Expr("credits - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCredits
		}
		entry := &models.CreditTransaction{
			UserID:  userID,
			Amount:  -amount,
			Type:    models.TxDeduction,
			Service: service,
		}
		return tx.Create(entry).Error
	})
}

// Refund unconditionally increments the balance and appends a REFUND entry,
// atomically. Used when a paid-for operation failed irrecoverably after a
// successful deduction.
func (d *CreditDAO) Refund(userID uuid.UUID, amount int64, service string) error {
	if amount <= 0 {
		return fmt.Errorf("refund amount must be positive, got %d", amount)
	}
	return d.credit(userID, amount, models.TxRefund, service)
}

// Grant increments the balance and appends a GRANT entry, atomically.
func (d *CreditDAO) Grant(userID uuid.UUID, amount int64, service string) error {
	if amount <= 0 {
		return fmt.Errorf("grant amount must be positive, got %d", amount)
	}
	return d.credit(userID, amount, models.TxGrant, service)
}

func (d *CreditDAO) credit(userID uuid.UUID, amount int64, kind, service string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("credits", gorm.Expr("credits + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		entry := &models.CreditTransaction{
			UserID:  userID,
			Amount:  amount,
			Type:    kind,
			Service: service,
		}
		return tx.Create(entry).Error
	})
}

// GetEntriesByUser retrieves a user's ledger entries, oldest first
func (d *CreditDAO) GetEntriesByUser(userID uuid.UUID) ([]models.CreditTransaction, error) {
	var entries []models.CreditTransaction
	if err := d.db.Where("user_id = ?", userID).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SumEntries returns the signed sum of a user's ledger entries. The balance
// column must reconcile to this value after every operation sequence.
func (d *CreditDAO) SumEntries(userID uuid.UUID) (int64, error) {
	var sum int64
	err := d.db.Model(&models.CreditTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
