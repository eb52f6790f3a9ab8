package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck 依赖的健康检查，返回 nil 表示正常
type HealthCheck func(ctx context.Context) error

// RouterDeps 路由依赖
type RouterDeps struct {
	Moderation *ModerationHandler
	Bans       *BanHandler
	Reports    *ReportHandler
	AdminToken string
	Health     map[string]HealthCheck
}

// NewRouter 创建 Gin 引擎并注册全部路由
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger())

	router.GET("/health", health(deps.Health))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api", AdminAuth(deps.AdminToken))
	{
		mod := api.Group("/moderation")
		mod.POST("/score", deps.Moderation.Score)
		mod.POST("/precheck", deps.Moderation.Precheck)
		mod.POST("/link", deps.Moderation.Link)
		mod.POST("/enforce", deps.Moderation.Enforce)

		users := api.Group("/users/:id")
		users.POST("/ban", deps.Bans.Ban)
		users.GET("/bans", deps.Bans.ListBans)
		users.GET("/banned", deps.Bans.Banned)

		reports := api.Group("/reports")
		reports.POST("", deps.Reports.Create)
		reports.GET("", deps.Reports.List)
		reports.GET("/:id", deps.Reports.Get)
		reports.PATCH("/:id/status", deps.Reports.UpdateStatus)
	}

	return router
}

// health 健康检查处理器，任一依赖异常返回 503
func health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		body := gin.H{"status": "healthy"}
		code := http.StatusOK

		for name, check := range checks {
			if err := check(ctx); err != nil {
				body[name] = "disconnected"
				body["status"] = "unhealthy"
				body["error"] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			body[name] = "connected"
		}
		c.JSON(code, body)
	}
}
