package dao

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hefeholuwa/secure-notes-vault/models"
)

// UserDAO handles user-related database operations
type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// CreateUserWithGrant creates a new user and records the initial credit grant
// as a GRANT ledger entry in the same transaction, so the account never exists
// without its opening audit row.
func (d *UserDAO) CreateUserWithGrant(email, passwordHash string, grant int64) (*models.User, error) {
	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: passwordHash,
		Credits:  grant,
	}
	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		entry := &models.CreditTransaction{
			UserID:  user.ID,
			Amount:  grant,
			Type:    models.TxGrant,
			Service: models.ServiceSignupBonus,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (d *UserDAO) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (d *UserDAO) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := d.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
