package common

import (
	_ "content_moderation/docs"
	commonHandler "content_moderation/internal/pkg/common"
	"content_moderation/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	health := commonHandler.NewHealthHandler(ctx.DB, ctx.Redis)
	setupRoutes(ctx.Router, health, ctx.Config == nil || ctx.Config.App.Env != "prod")
	return nil
}

func setupRoutes(r *gin.Engine, health *commonHandler.HealthHandler, swagger bool) {
	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
