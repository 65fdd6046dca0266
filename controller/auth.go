package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hefeholuwa/secure-notes-vault/logic"
	"github.com/hefeholuwa/secure-notes-vault/middleware"
)

// AuthController handles registration, login and profile requests
type AuthController struct {
	userLogic *logic.UserLogic
}

func NewAuthController(userLogic *logic.UserLogic) *AuthController {
	return &AuthController{userLogic: userLogic}
}

// Register handles POST /api/auth/register
func (c *AuthController) Register(ctx *gin.Context) {
	type Request struct {
		Email    string `json:"email" binding:"required,email,max=255"`
		Password string `json:"password" binding:"required,min=8,max=100"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := c.userLogic.Register(email, req.Password); err != nil {
		if errors.Is(err, logic.ErrEmailTaken) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// Login handles POST /api/auth/login
func (c *AuthController) Login(ctx *gin.Context) {
	type Request struct {
		Email    string `json:"email" binding:"required,email,max=255"`
		Password string `json:"password" binding:"required,max=100"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	token, expireAt, err := c.userLogic.Login(email, req.Password)
	if err != nil {
		if errors.Is(err, logic.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token, "expires_at": expireAt})
}

// GetProfile handles GET /api/auth/me
func (c *AuthController) GetProfile(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, entries, err := c.userLogic.GetProfile(userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"email":        user.Email,
		"credits":      user.Credits,
		"transactions": entries,
	})
}
