package moderation

import (
	"content_moderation/internal/domain/moderation/handler"
	"content_moderation/internal/domain/moderation/repository"
	"content_moderation/internal/domain/moderation/service"
	"content_moderation/internal/pkg/middleware"
	"content_moderation/internal/pkg/registry"
)

// ModerationModule 内容审核模块
type ModerationModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&ModerationModule{})
}

func (m *ModerationModule) Name() string {
	return "moderation"
}

func (m *ModerationModule) Priority() int {
	return 10
}

func (m *ModerationModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	opts := service.Options{}
	if ctx.Config != nil {
		opts.PendingLimit = ctx.Config.Moderation.PendingLimit
	}
	if ctx.Metrics != nil {
		opts.Metrics = ctx.Metrics
	}
	if ctx.Notifications != nil {
		opts.Notifier = ctx.Notifications
	}

	repo := repository.NewModerationRepository(ctx.DB)
	svc := service.NewModerationService(repo, opts)
	if ctx.Cache != nil {
		var statsTTL, recordTTL = service.DefaultStatsCacheTTL, service.DefaultRecordCacheTTL
		if ctx.Config != nil {
			statsTTL, recordTTL = ctx.Config.Moderation.StatsCacheTTL, ctx.Config.Moderation.RecordCacheTTL
		}
		var cacheMetrics service.CacheRecorder
		if ctx.Metrics != nil {
			cacheMetrics = ctx.Metrics
		}
		svc = service.NewCachedModerationService(svc, ctx.Cache, statsTTL, recordTTL, cacheMetrics)
	}
	h := handler.NewModerationHandler(svc)

	// 2. 路由注册
	group := ctx.Router.Group("/content-moderation")
	group.Use(middleware.AuthMiddleware())
	handler.RegisterRoutes(group, h)

	return nil
}
