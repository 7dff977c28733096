package users

import (
	"errors"
	"net/http"

	"review-platform/database"
	"review-platform/internal/api/pagination"
	"review-platform/internal/app/http/middleware"
	"review-platform/internal/domain/access"
	"review-platform/internal/domain/reviews"
	"review-platform/internal/domain/users"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func requireAdmin(c *gin.Context) bool {
	actor := middleware.CurrentUser(c)
	if access.AdminOnly(actor) {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
	return false
}

// GET /v1/users
func ListUsers(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	query := database.DB.Model(&users.User{}).Order("username ASC")
	if search := c.Query("search"); search != "" {
		query = query.Where("username LIKE ?", "%"+search+"%")
	}
	query = pagination.Apply(c, query)

	var list []users.User
	if err := query.Find(&list).Error; err != nil {
		zap.L().Error("failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	out := make([]UserDTO, 0, len(list))
	for _, u := range list {
		out = append(out, toUserDTO(u))
	}
	c.JSON(http.StatusOK, out)
}

// POST /v1/users
func CreateUser(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	var input struct {
		Username  string `json:"username" binding:"required"`
		Email     string `json:"email" binding:"required,email,max=254"`
		FirstName string `json:"first_name" binding:"omitempty,max=150"`
		LastName  string `json:"last_name" binding:"omitempty,max=150"`
		Bio       string `json:"bio"`
		Role      string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := users.ValidateUsername(input.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := users.RoleUser
	if input.Role != "" {
		role = users.Role(input.Role)
		if !users.ValidRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
			return
		}
	}

	user := users.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      role,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email is already registered"})
			return
		}
		zap.L().Error("failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, toUserDTO(user))
}

// GET /v1/users/:username
func GetUser(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	user, ok := findUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toUserDTO(*user))
}

type userPatch struct {
	Username  *string `json:"username"`
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

// applyPatch validates and copies the provided fields onto user. Role
// handling is the caller's decision: the admin endpoint honours it, the
// self endpoint drops it.
func applyPatch(c *gin.Context, user *users.User, patch userPatch, allowRole bool) bool {
	if patch.Username != nil {
		if err := users.ValidateUsername(*patch.Username); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return false
		}
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Role != nil && allowRole {
		role := users.Role(*patch.Role)
		if !users.ValidRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
			return false
		}
		user.Role = role
	}
	return true
}

func saveUser(c *gin.Context, user *users.User) {
	if err := database.DB.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email is already registered"})
			return
		}
		zap.L().Error("failed to update user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, toUserDTO(*user))
}

// PATCH /v1/users/:username
func PatchUser(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	user, ok := findUser(c)
	if !ok {
		return
	}

	var patch userPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !applyPatch(c, user, patch, true) {
		return
	}
	saveUser(c, user)
}

// DELETE /v1/users/:username
//
// The user's reviews go too, along with every comment either written by the
// user or attached to one of those reviews.
func DeleteUser(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	user, ok := findUser(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"author_id = ? OR review_id IN (SELECT id FROM reviews WHERE author_id = ?)",
			user.ID, user.ID,
		).Delete(&reviews.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", user.ID).
			Delete(&reviews.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		zap.L().Error("failed to delete user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /v1/users/me
func GetMe(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, toUserDTO(*actor))
}

// PATCH /v1/users/me
//
// The caller can edit profile fields but never their own role; a role value
// in the payload is silently ignored.
func PatchMe(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var patch userPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !applyPatch(c, actor, patch, false) {
		return
	}
	saveUser(c, actor)
}

func findUser(c *gin.Context) (*users.User, bool) {
	var user users.User
	err := database.DB.Where("username = ?", c.Param("username")).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return nil, false
		}
		zap.L().Error("failed to load user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return nil, false
	}
	return &user, true
}
