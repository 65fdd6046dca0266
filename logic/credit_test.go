package logic

import (
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/hefeholuwa/secure-notes-vault/dao"
	"github.com/hefeholuwa/secure-notes-vault/models"
	"github.com/hefeholuwa/secure-notes-vault/pkg"
)

func newTestLedger(db *gorm.DB) *CreditLogic {
	return NewCreditLogic(dao.NewCreditDAO(db), pkg.NoopPublisher{})
}

func getBalance(t *testing.T, db *gorm.DB, userID interface{}) int64 {
	t.Helper()
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	return user.Credits
}

func countEntries(t *testing.T, db *gorm.DB, userID interface{}, kind string) int64 {
	t.Helper()
	var n int64
	q := db.Model(&models.CreditTransaction{}).Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("type = ?", kind)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("failed to count entries: %v", err)
	}
	return n
}

// assertReconciled checks the core invariant: the balance column equals the
// signed sum of the user's ledger entries.
func assertReconciled(t *testing.T, db *gorm.DB, user *models.User) {
	t.Helper()
	sum, err := dao.NewCreditDAO(db).SumEntries(user.ID)
	if err != nil {
		t.Fatalf("SumEntries failed: %v", err)
	}
	if balance := getBalance(t, db, user.ID); balance != sum {
		t.Errorf("balance %d does not reconcile with entry sum %d", balance, sum)
	}
}

func TestDeductInsufficientCredits(t *testing.T) {
	db := openTestDB(t)
	ledger := newTestLedger(db)
	user := createTestUser(t, db, 1)

	err := ledger.Deduct(user.ID, 2, models.ServiceAIChat)
	if !errors.Is(err, dao.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}

	if balance := getBalance(t, db, user.ID); balance != 1 {
		t.Errorf("expected balance to remain 1, got %d", balance)
	}
	// A failed deduction must not leave a ledger entry behind
	if n := countEntries(t, db, user.ID, models.TxDeduction); n != 0 {
		t.Errorf("expected 0 DEDUCTION entries, got %d", n)
	}
	assertReconciled(t, db, user)
}

func TestDeductWritesEntry(t *testing.T) {
	db := openTestDB(t)
	ledger := newTestLedger(db)
	user := createTestUser(t, db, 5)

	if err := ledger.Deduct(user.ID, 1, models.ServiceAITag); err != nil {
		t.Fatalf("Deduct failed: %v", err)
	}

	if balance := getBalance(t, db, user.ID); balance != 4 {
		t.Errorf("expected balance 4, got %d", balance)
	}

	var entry models.CreditTransaction
	if err := db.Where("user_id = ? AND type = ?", user.ID, models.TxDeduction).First(&entry).Error; err != nil {
		t.Fatalf("expected a DEDUCTION entry: %v", err)
	}
	if entry.Amount != -1 {
		t.Errorf("expected delta -1, got %d", entry.Amount)
	}
	if entry.Service != models.ServiceAITag {
		t.Errorf("expected service %q, got %q", models.ServiceAITag, entry.Service)
	}
	assertReconciled(t, db, user)
}

func TestDeductRejectsNonPositiveAmount(t *testing.T) {
	db := openTestDB(t)
	ledger := newTestLedger(db)
	user := createTestUser(t, db, 5)

	for _, amount := range []int64{0, -3} {
		if err := ledger.Deduct(user.ID, amount, models.ServiceAITag); err == nil {
			t.Errorf("expected error for amount %d", amount)
		}
	}
	if balance := getBalance(t, db, user.ID); balance != 5 {
		t.Errorf("expected balance to remain 5, got %d", balance)
	}
}

// TestConcurrentDeducts drives the overdraft race: with balance 10 and
// concurrent deductions of 3, exactly floor(10/3) = 3 may succeed regardless
// of interleaving, and failures must write nothing.
func TestConcurrentDeducts(t *testing.T) {
	db := openTestDB(t)
	ledger := newTestLedger(db)
	user := createTestUser(t, db, 10)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- ledger.Deduct(user.ID, 3, models.ServiceAIChat)
		}()
	}
	wg.Wait()
	close(results)

	var successes, insufficient int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, dao.ErrInsufficientCredits):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 3 {
		t.Errorf("expected exactly 3 successful deductions, got %d", successes)
	}
	if insufficient != workers-3 {
		t.Errorf("expected %d insufficient-credit failures, got %d", workers-3, insufficient)
	}
	if balance := getBalance(t, db, user.ID); balance != 1 {
		t.Errorf("expected balance 1, got %d", balance)
	}
	if n := countEntries(t, db, user.ID, models.TxDeduction); n != 3 {
		t.Errorf("expected 3 DEDUCTION entries, got %d", n)
	}
	assertReconciled(t, db, user)
}

func TestRefund(t *testing.T) {
	db := openTestDB(t)
	ledger := newTestLedger(db)
	user := createTestUser(t, db, 3)

	if err := ledger.Refund(user.ID, 5, models.ServiceAIChat); err != nil {
		t.Fatalf("Refund failed: %v", err)
	}

	if balance := getBalance(t, db, user.ID); balance != 8 {
		t.Errorf("expected balance 8, got %d", balance)
	}
	if n := countEntries(t, db, user.ID, models.TxRefund); n != 1 {
		t.Errorf("expected exactly 1 REFUND entry, got %d", n)
	}
	assertReconciled(t, db, user)
}

func TestReconciliationAfterMixedSequence(t *testing.T) {
	db := openTestDB(t)
	ledger := newTestLedger(db)
	user := createTestUser(t, db, 50)

	ops := []func() error{
		func() error { return ledger.Deduct(user.ID, 2, models.ServiceAIChat) },
		func() error { return ledger.Deduct(user.ID, 1, models.ServiceAITag) },
		func() error { return ledger.Refund(user.ID, 2, models.ServiceAIChat) },
		func() error { return ledger.Grant(user.ID, 10, "PROMO") },
		func() error { return ledger.Deduct(user.ID, 100, models.ServiceAIChat) }, // must fail
	}
	for i, op := range ops {
		err := op()
		if i == len(ops)-1 {
			if !errors.Is(err, dao.ErrInsufficientCredits) {
				t.Fatalf("expected final deduct to fail with ErrInsufficientCredits, got %v", err)
			}
		} else if err != nil {
			t.Fatalf("operation %d failed: %v", i, err)
		}
		assertReconciled(t, db, user)
	}

	if balance := getBalance(t, db, user.ID); balance != 59 {
		t.Errorf("expected balance 59, got %d", balance)
	}

	entries, err := ledger.GetEntries(user.ID)
	if err != nil {
		t.Fatalf("GetEntries failed: %v", err)
	}
	// signup grant + 2 deductions + refund + promo grant
	if len(entries) != 5 {
		t.Errorf("expected 5 ledger entries, got %d", len(entries))
	}
}
