package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-planner/internal/api"
	"recipe-planner/internal/core/recipe"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/infrastructure/persistence"
	"recipe-planner/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 使用 logger 記錄啟動信息
	common.LogInfo("載入設定",
		zap.String("recipe_store_url", cfg.RecipeStore.BaseURL),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("snapshot_enabled", cfg.Snapshot.Enabled),
	)

	// 初始化規劃器儲存層：redis 關閉時退回記憶體儲存
	var store persistence.Store
	if cfg.Redis.Enabled {
		redisStore, err := persistence.NewRedisStore(&cfg.Redis)
		if err != nil {
			common.LogFatal("Failed to initialize planner store", zap.Error(err))
		}
		store = redisStore
	} else {
		common.LogWarn("Redis disabled, planner state is not durable")
		store = persistence.NewMemoryStore()
	}
	defer store.Close()

	// 初始化食譜庫客戶端與快照緩存
	recipeStore := recipe.NewStore(&cfg.RecipeStore)
	snapshotCache := recipe.NewSnapshotCache(&cfg.Snapshot, recipeStore)
	defer snapshotCache.Close()

	// 設置路由
	router, err := api.SetupRouter(cfg, store, snapshotCache)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
