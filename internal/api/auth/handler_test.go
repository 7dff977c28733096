package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"review-platform/config"
	"review-platform/database"
	"review-platform/internal/domain/users"
)

var testDBSeq atomic.Int64

func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.JWT_SECRET = "test-secret"

	dsn := fmt.Sprintf("file:authtest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	r := gin.New()
	r.POST("/v1/auth/signup", Signup)
	r.POST("/v1/auth/token", Token)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// stubEmailer counts sends instead of talking to an SMTP server.
func stubEmailer(t *testing.T) *atomic.Int64 {
	t.Helper()
	var sent atomic.Int64
	orig := sendConfirmationEmail
	sendConfirmationEmail = func(to, code string) error {
		sent.Add(1)
		return nil
	}
	t.Cleanup(func() { sendConfirmationEmail = orig })
	return &sent
}

func TestSignupCreatesUserAndSendsCode(t *testing.T) {
	r := setupTest(t)
	sent := stubEmailer(t)

	w := postJSON(r, "/v1/auth/signup", gin.H{"username": "alice", "email": "alice@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp["username"])
	assert.Equal(t, "alice@example.com", resp["email"])
	assert.NotContains(t, w.Body.String(), "confirmation_code", "code must never appear in the response")

	var user users.User
	require.NoError(t, database.DB.Where("username = ?", "alice").First(&user).Error)
	assert.Len(t, user.ConfirmationCode, 32)
	assert.Equal(t, users.RoleUser, user.Role)
	assert.EqualValues(t, 1, sent.Load())
}

func TestSignupIsIdempotentForSamePair(t *testing.T) {
	r := setupTest(t)
	sent := stubEmailer(t)

	w := postJSON(r, "/v1/auth/signup", gin.H{"username": "alice", "email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var first users.User
	require.NoError(t, database.DB.Where("username = ?", "alice").First(&first).Error)

	w = postJSON(r, "/v1/auth/signup", gin.H{"username": "alice", "email": "alice@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	database.DB.Model(&users.User{}).Count(&count)
	assert.EqualValues(t, 1, count, "repeat signup must not create a second user")

	var second users.User
	require.NoError(t, database.DB.Where("username = ?", "alice").First(&second).Error)
	assert.NotEqual(t, first.ConfirmationCode, second.ConfirmationCode, "repeat signup must rotate the code")
	assert.EqualValues(t, 2, sent.Load())
}

func TestSignupRejectsIdentityCollision(t *testing.T) {
	r := setupTest(t)
	sent := stubEmailer(t)

	w := postJSON(r, "/v1/auth/signup", gin.H{"username": "alice", "email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	// Same username, different email.
	w = postJSON(r, "/v1/auth/signup", gin.H{"username": "alice", "email": "other@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Same email, different username.
	w = postJSON(r, "/v1/auth/signup", gin.H{"username": "bob", "email": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	database.DB.Model(&users.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.EqualValues(t, 1, sent.Load(), "failed signups must not send email")
}

func TestSignupValidation(t *testing.T) {
	r := setupTest(t)
	stubEmailer(t)

	cases := []gin.H{
		{"username": "me", "email": "me@example.com"},
		{"username": "bad name", "email": "bad@example.com"},
		{"username": "", "email": "x@example.com"},
		{"username": "alice"},
		{"email": "alice@example.com"},
		{"username": "alice", "email": "not-an-email"},
	}
	for _, body := range cases {
		w := postJSON(r, "/v1/auth/signup", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %v should be rejected", body)
	}
}

func TestTokenExchange(t *testing.T) {
	r := setupTest(t)
	stubEmailer(t)

	w := postJSON(r, "/v1/auth/signup", gin.H{"username": "alice", "email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var user users.User
	require.NoError(t, database.DB.Where("username = ?", "alice").First(&user).Error)

	w = postJSON(r, "/v1/auth/token", gin.H{"username": "alice", "confirmation_code": user.ConfirmationCode})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
}

func TestTokenExchangeWrongCode(t *testing.T) {
	r := setupTest(t)
	stubEmailer(t)

	w := postJSON(r, "/v1/auth/signup", gin.H{"username": "alice", "email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/v1/auth/token", gin.H{"username": "alice", "confirmation_code": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenExchangeUnknownUser(t *testing.T) {
	r := setupTest(t)

	w := postJSON(r, "/v1/auth/token", gin.H{"username": "ghost", "confirmation_code": "whatever"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTokenExchangeCodeStaysValid(t *testing.T) {
	r := setupTest(t)
	stubEmailer(t)

	w := postJSON(r, "/v1/auth/signup", gin.H{"username": "alice", "email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var user users.User
	require.NoError(t, database.DB.Where("username = ?", "alice").First(&user).Error)

	// The code is not consumed by a successful exchange.
	for i := 0; i < 2; i++ {
		w = postJSON(r, "/v1/auth/token", gin.H{"username": "alice", "confirmation_code": user.ConfirmationCode})
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestSignupEmailFailureIsReported(t *testing.T) {
	r := setupTest(t)

	orig := sendConfirmationEmail
	sendConfirmationEmail = func(to, code string) error {
		return fmt.Errorf("smtp unreachable")
	}
	t.Cleanup(func() { sendConfirmationEmail = orig })

	w := postJSON(r, "/v1/auth/signup", gin.H{"username": "alice", "email": "alice@example.com"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
