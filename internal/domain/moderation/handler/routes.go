package handler

import (
	"content_moderation/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册内容审核路由，调用方负责在 group 上挂载 AuthMiddleware
func RegisterRoutes(group *gin.RouterGroup, h *ModerationHandler) {
	admin := middleware.RequireRoles(middleware.RoleAdmin)
	reviewers := middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleModerator)
	ingest := middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleService)

	group.POST("", admin, h.Create)
	group.POST("/moderate", ingest, h.Moderate)
	group.GET("", reviewers, h.FindAll)
	group.GET("/pending", reviewers, h.GetPendingReviews)
	group.GET("/stats", reviewers, h.GetStats)
	group.GET("/:id", reviewers, h.FindOne)
	group.PATCH("/:id", reviewers, h.Update)
	group.POST("/bulk-update", reviewers, h.BulkUpdate)
	group.DELETE("/:id", admin, h.Remove)
}
