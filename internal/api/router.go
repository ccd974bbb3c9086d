package api

import (
	"context"
	"net/http"
	"time"

	browseHandler "recipe-planner/internal/api/handlers/browse"
	"recipe-planner/internal/api/handlers/health"
	plannerHandler "recipe-planner/internal/api/handlers/planner"
	recipeHandler "recipe-planner/internal/api/handlers/recipe"
	"recipe-planner/internal/api/middleware"
	"recipe-planner/internal/core/recipe"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/infrastructure/persistence"
	"recipe-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)，規劃器狀態整份上傳也用不了更多
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, store persistence.Store, source recipe.Source) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		// 設置配置與快照緩存（健康檢查用）
		c.Set("config", cfg)
		if cache, ok := source.(*recipe.SnapshotCache); ok {
			c.Set("snapshot_cache", cache)
		}

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		plannerInstance := plannerHandler.NewHandler(store, cfg)
		browseInstance := browseHandler.NewHandler(source, cfg)

		// 規劃器狀態與購物清單
		plannerGroup := api.Group("/planner")
		{
			plannerGroup.GET("/:user_id", plannerInstance.HandleGetState)
			plannerGroup.PUT("/:user_id", plannerInstance.HandlePutState)
			plannerGroup.POST("/:user_id/checked", plannerInstance.HandleToggleChecked)
			plannerGroup.GET("/:user_id/shopping-list", plannerInstance.HandleShoppingList)
		}

		// 列表篩選
		browseGroup := api.Group("/browse")
		{
			browseGroup.POST("/filter", browseInstance.HandleFilter)
		}

		// 食譜頁份數縮放
		recipeGroup := api.Group("/recipe")
		{
			recipeGroup.POST("/scale", recipeHandler.HandleScale)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
