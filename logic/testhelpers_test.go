package logic

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hefeholuwa/secure-notes-vault/dao"
	"github.com/hefeholuwa/secure-notes-vault/models"
	"github.com/hefeholuwa/secure-notes-vault/pkg"
)

// openTestDB creates a temp-file sqlite database with the full schema. WAL and
// a busy timeout keep concurrent transaction tests from failing on lock
// contention.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)",
		filepath.Join(t.TempDir(), "test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Note{},
		&models.ChatMessage{},
		&models.CreditTransaction{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// createTestUser registers a user with the given starting balance, recorded as
// a GRANT entry so the reconciliation invariant holds from the start.
func createTestUser(t *testing.T, db *gorm.DB, credits int64) *models.User {
	t.Helper()

	user, err := dao.NewUserDAO(db).CreateUserWithGrant(
		fmt.Sprintf("user-%s@example.com", uuid.NewString()), "not-a-real-hash", credits)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// fakeCompleter is a ChatCompleter double that records the messages it was
// given and returns a canned output or error.
type fakeCompleter struct {
	output   string
	err      error
	calls    int
	messages []pkg.RequestMessage
}

func (f *fakeCompleter) CreateChatCompletion(messages []pkg.RequestMessage) (string, error) {
	f.calls++
	f.messages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}
