package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"review-platform/config"
	"review-platform/database"
	"review-platform/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userContextKey = "current_user"

// Authenticate requires a valid bearer token and loads the matching user
// into the request context. Role checks read the stored row, not the token
// claims, so a role change takes effect immediately.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := userFromBearerToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// MaybeAuthenticate loads the user when a bearer token is present and lets
// anonymous requests through. A token that is present but invalid is still
// rejected.
func MaybeAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		user, err := userFromBearerToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *users.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*users.User)
	if !ok {
		return nil
	}
	return user
}

func userFromBearerToken(c *gin.Context) (*users.User, error) {
	jwtKey := []byte(config.JWT_SECRET)
	if len(jwtKey) == 0 {
		return nil, errors.New("JWT secret not configured")
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errors.New("Authorization header missing")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, errors.New("Bearer token malformed")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("Invalid token claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("Invalid token claims")
	}

	var user users.User
	if err := database.DB.First(&user, uint(userIDFloat)).Error; err != nil {
		return nil, errors.New("User no longer exists")
	}
	return &user, nil
}
