package routers

import (
	_ "github.com/haierkeys/note-share-service/docs"
	"github.com/haierkeys/note-share-service/internal/app"
	"github.com/haierkeys/note-share-service/internal/middleware"
	"github.com/haierkeys/note-share-service/internal/routers/api_router"
	pkgapp "github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter 创建 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()
	paginationConfig := cfg.GetPaginationConfig()

	r := gin.New()
	r.Use(middleware.Metrics(appContainer.Metrics))

	api := r.Group("/api")
	{
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		if cfg.RateLimit.Enabled {
			api.Use(middleware.RateLimiter(limiter.NewMethodLimiter().AddBuckets(cfg.GetBucketRules()...)))
		}
		api.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(func(c *gin.Context) {
			pkgapp.SetPaginationConfig(c, paginationConfig)
			c.Next()
		})

		// 创建 Handlers（注入 App Container）
		userHandler := api_router.NewUserHandler(appContainer)
		noteHandler := api_router.NewNoteHandler(appContainer)
		shareHandler := api_router.NewShareHandler(appContainer)
		noteHistoryHandler := api_router.NewNoteHistoryHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)
		adminHandler := api_router.NewAdminHandler(appContainer)

		api.POST("/user/signup", userHandler.Register)
		api.POST("/user/login", userHandler.Login)

		// 无需认证
		api.GET("/version", versionHandler.ServerVersion)
		api.GET("/health", versionHandler.Health)

		auth := api.Group("", middleware.UserAuthTokenWithManager(appContainer.TokenManager))
		{
			auth.GET("/user/info", userHandler.UserInfo)
			auth.POST("/user/change_password", userHandler.UserChangePassword)

			auth.POST("/notes/create", noteHandler.Create)
			auth.GET("/notes", noteHandler.List)
			auth.GET("/notes/:id", noteHandler.Get)
			auth.PUT("/notes/:id", noteHandler.Append)
			auth.DELETE("/notes/:id", noteHandler.Delete)

			auth.POST("/notes/share", shareHandler.Share)
			auth.POST("/notes/unshare", shareHandler.Unshare)
			auth.GET("/notes/:id/shares", shareHandler.SharedUsers)

			auth.GET("/notes/version-history/:id", noteHistoryHandler.List)

			auth.GET("/admin/systeminfo", middleware.AdminOnly(appContainer.IsAdmin), adminHandler.GetSystemInfo)
		}
	}

	if cfg.Server.RunMode != gin.ReleaseMode {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
