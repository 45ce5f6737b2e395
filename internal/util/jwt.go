package util

import (
	"learning_path_backend/internal/model"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "userID"

	// 签发方与本服务之间允许的时钟偏差
	tokenLeeway = 30 * time.Second
)

type Claims struct {
	UserID uint           `json:"user_id"`
	Role   model.UserRole `json:"role"`
	Email  string         `json:"email"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool { return c.Role == model.Admin }

// NewClaims sub 与 user_id 保持一致
func NewClaims(userID uint, role model.UserRole, email string, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		UserID: userID,
		Role:   role,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// GenerateJWT 令牌由身份服务签发，这里只用于本地调试和测试
func GenerateJWT(userID uint, role model.UserRole, email, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, NewClaims(userID, role, email, ttl))
	return token.SignedString([]byte(secret))
}

// ParseJWT 只接受 HS256 且必须带过期时间和用户 ID
func ParseJWT(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(tokenLeeway),
	)
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 || claims.Role == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func SetUser(c *gin.Context, claims *Claims) {
	c.Set(ContextUserKey, claims)
	c.Set(ContextUserIDKey, claims.UserID)
}

func GetUserFromContext(c *gin.Context) *Claims {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
