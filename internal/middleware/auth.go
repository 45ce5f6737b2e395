package middleware

import (
	"learning_path_backend/internal/config"
	"learning_path_backend/internal/model"
	"learning_path_backend/internal/util"
	"learning_path_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		// websocket 连接无法携带 header，允许 query 传 token
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT parse failed", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		util.SetUser(c, claims)
		c.Next()
	}
}

// RoleMiddleware 角色门禁，管理员拥有全部权限
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return roleGate(true, roles)
}

// StrictRoleMiddleware 与 RoleMiddleware 相同，但管理员不会被自动放行
func StrictRoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return roleGate(false, roles)
}

func roleGate(adminPasses bool, roles []model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if adminPasses && user.IsAdmin() {
			c.Next()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		logger.Log.Debug("Role check rejected",
			zap.Uint("userID", user.UserID),
			zap.String("role", string(user.Role)),
			zap.String("path", c.FullPath()))
		util.Forbidden(c)
		c.Abort()
	}
}
