package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ummet-social/moderation-hub/internal/cache"
	"github.com/ummet-social/moderation-hub/internal/config"
	"github.com/ummet-social/moderation-hub/internal/database"
	"github.com/ummet-social/moderation-hub/internal/handler"
	"github.com/ummet-social/moderation-hub/internal/moderation"
	"github.com/ummet-social/moderation-hub/internal/notify"
	"github.com/ummet-social/moderation-hub/internal/pkg/logger"
	"github.com/ummet-social/moderation-hub/internal/pkg/validator"
	"github.com/ummet-social/moderation-hub/internal/repository"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	logger.Info().Str("env", cfg.Env).Msg("Starting moderation hub...")

	// 初始化验证器
	validator.Init()

	// 连接数据库
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	health := map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error { return db.PingContext(ctx) },
	}

	// 连接 Redis，失败时不使用缓存
	var banCache moderation.BanCache
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.NewRedis(cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, ban status cache disabled")
		} else {
			defer database.CloseRedis(rdb)
			banCache = cache.NewBanStatusCache(rdb)
			health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	// 事件输出：日志，以及可选的管理员 webhook
	sinks := moderation.MultiSink{moderation.LogSink{}}
	webhook := notify.NewWebhook(cfg.Notify)
	if webhook != nil {
		sinks = append(sinks, webhook)
		defer webhook.Close()
	}

	repos := repository.NewFactory(db)
	scorer := moderation.NewScorer(nil)
	enforcer := moderation.NewEnforcer(moderation.EnforcerDeps{
		Scorer:  scorer,
		Bans:    repos.UserBan(),
		Reports: repos.Report(),
		Cache:   banCache,
		Sink:    sinks,
		Options: moderation.Options{
			BanDuration:   cfg.Moderation.BanDuration,
			SystemActor:   cfg.Moderation.SystemActor,
			ExcerptLength: cfg.Moderation.ExcerptLength,
		},
	})
	gate := moderation.NewBanGate(repos.UserBan(), banCache, cfg.Moderation.BanCacheTTL, nil)

	if cfg.Auth.AdminToken == "" {
		if cfg.IsProduction() {
			logger.Fatal().Msg("ADMIN_TOKEN is required in production")
		}
		logger.Warn().Msg("ADMIN_TOKEN is empty, API is not protected")
	}

	// 创建 Gin 引擎
	if !cfg.IsDevelopment() && cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.RouterDeps{
		Moderation: handler.NewModerationHandler(scorer, enforcer, gate),
		Bans:       handler.NewBanHandler(enforcer, repos.UserBan(), gate),
		Reports:    handler.NewReportHandler(repos.Report()),
		AdminToken: cfg.Auth.AdminToken,
		Health:     health,
	})

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		logger.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Server listening")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	// 优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
