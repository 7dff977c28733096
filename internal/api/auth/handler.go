package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"review-platform/config"
	"review-platform/database"
	"review-platform/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Swapped out by tests so they can count sends without an SMTP server.
var sendConfirmationEmail = SendConfirmationEmail

func generateConfirmationCode() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// Signup registers a (username, email) pair and emails a fresh confirmation
// code. Repeating the identical call overwrites the stored code instead of
// creating a second account.
func Signup(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email,max=254"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := users.ValidateUsername(input.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := generateConfirmationCode()

	var user users.User
	err := database.DB.
		Where("username = ? AND email = ?", input.Username, input.Email).
		First(&user).Error
	switch {
	case err == nil:
		// Same pair already registered: regenerate the code only.
		if err := database.DB.Model(&user).Update("confirmation_code", code).Error; err != nil {
			zap.L().Error("failed to refresh confirmation code", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update confirmation code"})
			return
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		user = users.User{
			Username:         input.Username,
			Email:            input.Email,
			Role:             users.RoleUser,
			ConfirmationCode: code,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			// The unique indexes are the authority here: a half-matching
			// pair or a lost race both land in this branch.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email is already registered"})
				return
			}
			zap.L().Error("failed to create user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

	default:
		zap.L().Error("signup lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	if err := sendConfirmationEmail(user.Email, code); err != nil {
		zap.L().Error("failed to send confirmation email", zap.String("email", user.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send confirmation email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": user.Username, "email": user.Email})
}

// Token exchanges a username plus confirmation code for a signed bearer
// token. The stored code stays valid afterwards; only the next signup call
// replaces it.
func Token(c *gin.Context) {
	var input struct {
		Username         string `json:"username" binding:"required"`
		ConfirmationCode string `json:"confirmation_code" binding:"required,max=150"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := users.ValidateUsername(input.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user users.User
	if err := database.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		zap.L().Error("token lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	if user.ConfirmationCode == "" || user.ConfirmationCode != input.ConfirmationCode {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid confirmation code"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(config.JWT_SECRET))
	if err != nil {
		zap.L().Error("failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}
