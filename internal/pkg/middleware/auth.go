package middleware

import (
	"net/http"
	"strings"

	"content_moderation/pkg/response"
	"content_moderation/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 角色
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleService   = "service" // 内部服务调用，如评论、私信模块提交待审内容
	RoleUser      = "user"
)

// 上下文键
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// AuthMiddleware JWT认证中间件
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Authorization header is required")
			c.Abort()
			return
		}

		// 检查格式 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil || claims.UserID == "" {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		// user_id 会作为审核员 ID 写入 uuid 列
		if _, err := uuid.Parse(claims.UserID); err != nil {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid user id in token")
			c.Abort()
			return
		}

		// 将 userID 和 role 存入上下文
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// RequireRoles 角色校验中间件，需放在 AuthMiddleware 之后
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			response.Error(c, http.StatusUnauthorized, response.ErrNoPermission, "Unauthorized")
			c.Abort()
			return
		}

		if _, ok := allowed[role]; !ok {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Insufficient role")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUserID 当前登录用户
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
