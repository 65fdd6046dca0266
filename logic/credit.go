package logic

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hefeholuwa/secure-notes-vault/dao"
	"github.com/hefeholuwa/secure-notes-vault/models"
	"github.com/hefeholuwa/secure-notes-vault/pkg"
)

// CreditLogic is the ledger service. All balance changes go through it; the
// atomic conditional update in the DAO is the only synchronization, there are
// no in-process locks.
type CreditLogic struct {
	creditDAO *dao.CreditDAO
	publisher pkg.EventPublisher
}

func NewCreditLogic(creditDAO *dao.CreditDAO, publisher pkg.EventPublisher) *CreditLogic {
	return &CreditLogic{
		creditDAO: creditDAO,
		publisher: publisher,
	}
}

// Deduct reserves credits before a paid operation. Returns
// dao.ErrInsufficientCredits when the balance does not cover the amount, in
// which case nothing is written.
func (l *CreditLogic) Deduct(userID uuid.UUID, amount int64, service string) error {
	if err := l.creditDAO.Deduct(userID, amount, service); err != nil {
		if errors.Is(err, dao.ErrInsufficientCredits) {
			pkg.InsufficientCredits.Inc()
		}
		return err
	}
	l.announce(userID, -amount, models.TxDeduction, service)
	return nil
}

// Refund returns credits after a paid operation failed irrecoverably.
func (l *CreditLogic) Refund(userID uuid.UUID, amount int64, service string) error {
	if err := l.creditDAO.Refund(userID, amount, service); err != nil {
		return err
	}
	l.announce(userID, amount, models.TxRefund, service)
	return nil
}

// Grant adds credits outside the pay-per-use flow (signup bonus, promotions).
func (l *CreditLogic) Grant(userID uuid.UUID, amount int64, service string) error {
	if err := l.creditDAO.Grant(userID, amount, service); err != nil {
		return err
	}
	l.announce(userID, amount, models.TxGrant, service)
	return nil
}

// GetEntries returns a user's audit trail, oldest first
func (l *CreditLogic) GetEntries(userID uuid.UUID) ([]models.CreditTransaction, error) {
	return l.creditDAO.GetEntriesByUser(userID)
}

// announce records metrics and publishes the ledger event. Publication is
// best-effort; the ledger row is already committed.
func (l *CreditLogic) announce(userID uuid.UUID, amount int64, kind, service string) {
	pkg.LedgerOperations.WithLabelValues(kind).Inc()
	event := pkg.LedgerEvent{
		UserID:     userID.String(),
		Amount:     amount,
		Type:       kind,
		Service:    service,
		OccurredAt: time.Now().UTC(),
	}
	if err := l.publisher.Publish(event); err != nil {
		slog.Warn("failed to publish ledger event", "user_id", userID, "type", kind, "error", err)
	}
}
