package catalog

import (
	"net/http"

	"review-platform/internal/app/http/middleware"
	"review-platform/internal/domain/access"

	"github.com/gin-gonic/gin"
)

// requireAdminOrReadOnly enforces the public-read/admin-write rule shared by
// categories, genres and titles. Anonymous write attempts get 401, everyone
// else who fails the predicate gets 403.
func requireAdminOrReadOnly(c *gin.Context) bool {
	actor := middleware.CurrentUser(c)
	if access.AdminOrReadOnly(c.Request.Method, actor) {
		return true
	}
	if actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	} else {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
	}
	c.Abort()
	return false
}
