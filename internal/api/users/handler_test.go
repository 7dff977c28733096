package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"review-platform/config"
	"review-platform/database"
	"review-platform/internal/app/http/middleware"
	"review-platform/internal/domain/users"
)

var testDBSeq atomic.Int64

func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.JWT_SECRET = "test-secret"

	dsn := fmt.Sprintf("file:userstest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	r := gin.New()
	authed := r.Group("/v1", middleware.Authenticate())
	authed.GET("/users", ListUsers)
	authed.POST("/users", CreateUser)
	authed.GET("/users/me", GetMe)
	authed.PATCH("/users/me", PatchMe)
	authed.GET("/users/:username", GetUser)
	authed.PATCH("/users/:username", PatchUser)
	authed.DELETE("/users/:username", DeleteUser)
	return r
}

func seedUser(t *testing.T, username string, role users.Role) users.User {
	t.Helper()
	user := users.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, user users.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(config.JWT_SECRET))
	require.NoError(t, err)
	return signed
}

func doRequest(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		payload, _ := json.Marshal(body)
		buf = bytes.NewBuffer(payload)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListUsersRequiresAdmin(t *testing.T) {
	r := setupTest(t)
	admin := seedUser(t, "admin", users.RoleAdmin)
	regular := seedUser(t, "bob", users.RoleUser)
	moderator := seedUser(t, "mod", users.RoleModerator)

	w := doRequest(r, http.MethodGet, "/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodGet, "/v1/users", tokenFor(t, regular), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodGet, "/v1/users", tokenFor(t, moderator), nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "moderator is not admin")

	w = doRequest(r, http.MethodGet, "/v1/users", tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var list []UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 3)
}

func TestListUsersSearch(t *testing.T) {
	r := setupTest(t)
	admin := seedUser(t, "admin", users.RoleAdmin)
	seedUser(t, "alice", users.RoleUser)
	seedUser(t, "bob", users.RoleUser)

	w := doRequest(r, http.MethodGet, "/v1/users?search=ali", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].Username)
}

func TestCreateUserAsAdmin(t *testing.T) {
	r := setupTest(t)
	admin := seedUser(t, "admin", users.RoleAdmin)

	w := doRequest(r, http.MethodPost, "/v1/users", tokenFor(t, admin), gin.H{
		"username": "newbie",
		"email":    "newbie@example.com",
		"role":     "moderator",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var user users.User
	require.NoError(t, database.DB.Where("username = ?", "newbie").First(&user).Error)
	assert.Equal(t, users.RoleModerator, user.Role)

	w = doRequest(r, http.MethodPost, "/v1/users", tokenFor(t, admin), gin.H{
		"username": "badrole",
		"email":    "badrole@example.com",
		"role":     "owner",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchUserRole(t *testing.T) {
	r := setupTest(t)
	admin := seedUser(t, "admin", users.RoleAdmin)
	bob := seedUser(t, "bob", users.RoleUser)

	w := doRequest(r, http.MethodPatch, "/v1/users/bob", tokenFor(t, admin), gin.H{"role": "moderator"})
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded users.User
	require.NoError(t, database.DB.First(&reloaded, bob.ID).Error)
	assert.Equal(t, users.RoleModerator, reloaded.Role)
}

func TestMeEndpoint(t *testing.T) {
	r := setupTest(t)
	bob := seedUser(t, "bob", users.RoleUser)

	w := doRequest(r, http.MethodGet, "/v1/users/me", tokenFor(t, bob), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var dto UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, "bob", dto.Username)
	assert.Equal(t, "user", dto.Role)
}

func TestPatchMePreservesRole(t *testing.T) {
	r := setupTest(t)
	bob := seedUser(t, "bob", users.RoleUser)

	w := doRequest(r, http.MethodPatch, "/v1/users/me", tokenFor(t, bob), gin.H{
		"first_name": "Bob",
		"bio":        "I review things.",
		"role":       "admin",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded users.User
	require.NoError(t, database.DB.First(&reloaded, bob.ID).Error)
	assert.Equal(t, "Bob", reloaded.FirstName)
	assert.Equal(t, "I review things.", reloaded.Bio)
	assert.Equal(t, users.RoleUser, reloaded.Role, "self-edit must not escalate role")
}

func TestDeleteUser(t *testing.T) {
	r := setupTest(t)
	admin := seedUser(t, "admin", users.RoleAdmin)
	seedUser(t, "bob", users.RoleUser)

	w := doRequest(r, http.MethodDelete, "/v1/users/bob", tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	database.DB.Model(&users.User{}).Where("username = ?", "bob").Count(&count)
	assert.EqualValues(t, 0, count)

	w = doRequest(r, http.MethodDelete, "/v1/users/bob", tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
