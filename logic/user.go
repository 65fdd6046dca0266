package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hefeholuwa/secure-notes-vault/config"
	"github.com/hefeholuwa/secure-notes-vault/dao"
	"github.com/hefeholuwa/secure-notes-vault/models"
)

// InitialCreditGrant is the balance every account starts with.
const InitialCreditGrant = 50

// UserLogic handles registration, login and profile lookup
type UserLogic struct {
	userDAO     *dao.UserDAO
	creditLogic *CreditLogic
}

func NewUserLogic(userDAO *dao.UserDAO, creditLogic *CreditLogic) *UserLogic {
	return &UserLogic{
		userDAO:     userDAO,
		creditLogic: creditLogic,
	}
}

// Register creates a user with a hashed password and the signup credit grant.
// The user row and its GRANT ledger entry are written in one transaction.
func (l *UserLogic) Register(email, password string) (*models.User, error) {
	if _, err := l.userDAO.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := l.userDAO.CreateUserWithGrant(email, string(hash), InitialCreditGrant)
	if err != nil {
		return nil, err
	}

	l.creditLogic.announce(user.ID, InitialCreditGrant, models.TxGrant, models.ServiceSignupBonus)
	return user, nil
}

// Login verifies credentials and issues a signed token. Unknown email and
// wrong password produce the same error.
func (l *UserLogic) Login(email, password string) (string, time.Time, error) {
	user, err := l.userDAO.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	return l.generateJWT(user.ID)
}

func (l *UserLogic) generateJWT(userID uuid.UUID) (string, time.Time, error) {
	expireAt := time.Now().Add(time.Duration(config.GlobalConfig.Auth.ExpHour) * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     expireAt.Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString([]byte(config.GlobalConfig.Auth.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expireAt, nil
}

// GetProfile returns the user together with their ledger entries
func (l *UserLogic) GetProfile(userID uuid.UUID) (*models.User, []models.CreditTransaction, error) {
	user, err := l.userDAO.GetUserByID(userID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := l.creditLogic.GetEntries(userID)
	if err != nil {
		return nil, nil, err
	}
	return user, entries, nil
}
