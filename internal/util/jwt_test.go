package util

import (
	"learning_path_backend/internal/model"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWT_RoundTrip(t *testing.T) {
	token, err := GenerateJWT(12, model.Teacher, "t@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.UserID)
	assert.Equal(t, model.Teacher, claims.Role)
	assert.False(t, claims.IsAdmin())
	assert.Equal(t, "12", claims.Subject)
}

func TestJWT_Rejections(t *testing.T) {
	token, err := GenerateJWT(1, model.Student, "s@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = ParseJWT(token, "another-secret-another-secret-xx")
	assert.Error(t, err)

	expired, err := GenerateJWT(1, model.Student, "s@example.com", testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, testSecret)
	assert.Error(t, err)
}

func TestJWT_RequiresUserAndExpiry(t *testing.T) {
	sign := func(c jwt.Claims) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return tok
	}

	_, err := ParseJWT(sign(NewClaims(0, model.Student, "x@example.com", time.Hour)), testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidClaims)

	noExpiry := NewClaims(3, model.Student, "x@example.com", time.Hour)
	noExpiry.ExpiresAt = nil
	_, err = ParseJWT(sign(noExpiry), testSecret)
	assert.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)

	// 偏差范围内的过期令牌仍然有效
	_, err = ParseJWT(sign(NewClaims(3, model.Student, "x@example.com", -10*time.Second)), testSecret)
	assert.NoError(t, err)
}

func TestGetUserFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetUserFromContext(c))

	claims := NewClaims(9, model.Admin, "a@example.com", time.Hour)
	SetUser(c, claims)
	assert.Same(t, claims, GetUserFromContext(c))
	assert.Equal(t, uint(9), c.GetUint(ContextUserIDKey))
	assert.True(t, GetUserFromContext(c).IsAdmin())
}
