package recipe

import (
	"context"
	"sync"
	"time"

	"recipe-planner/internal/core/browse"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// SnapshotCache 食譜池快照緩存
// 一個列表 context（cuisine）對應一份池快照，過期前的篩選請求都不再打食譜庫
type SnapshotCache struct {
	config *config.SnapshotConfig
	source Source
	mu     sync.RWMutex
	store  map[string]snapshotEntry
	stats  snapshotStats
	done   chan struct{}
}

// snapshotEntry 緩存條目
type snapshotEntry struct {
	recipes     []browse.RecipeSummary
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// snapshotStats 緩存統計
type snapshotStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewSnapshotCache 創建快照緩存；緩存關閉時回傳直通來源的包裝
func NewSnapshotCache(cfg *config.SnapshotConfig, source Source) *SnapshotCache {
	c := &SnapshotCache{
		config: cfg,
		source: source,
		store:  make(map[string]snapshotEntry),
		done:   make(chan struct{}),
	}

	if cfg.Enabled {
		// 啟動清理過期快照的協程
		go c.startCleanup()

		common.LogInfo("快照緩存已初始化",
			zap.Int("最大容量", cfg.MaxSize),
			zap.Duration("存活時間", cfg.TTL),
			zap.Duration("清理間隔", cfg.CleanupInterval),
		)
	}

	return c
}

// FetchRecipes 取得食譜池，緩存未命中或過期時才回源
func (c *SnapshotCache) FetchRecipes(ctx context.Context, cuisine string) ([]browse.RecipeSummary, error) {
	if !c.config.Enabled {
		return c.source.FetchRecipes(ctx, cuisine)
	}

	key := snapshotKey(cuisine)

	c.mu.Lock()
	if entry, exists := c.store[key]; exists && time.Now().Before(entry.expiresAt) {
		entry.lastAccess = time.Now()
		entry.accessCount++
		c.store[key] = entry
		c.stats.hits++
		c.mu.Unlock()
		common.LogCacheHit("recipe_snapshot", key)
		return entry.recipes, nil
	}
	c.stats.misses++
	c.mu.Unlock()
	common.LogCacheMiss("recipe_snapshot", key)

	recipes, err := c.source.FetchRecipes(ctx, cuisine)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// 超過容量先清過期，再不夠就淘汰最少使用的
	if len(c.store) >= c.config.MaxSize {
		c.cleanup()
		if len(c.store) >= c.config.MaxSize {
			c.evictLRU()
		}
	}

	now := time.Now()
	c.store[key] = snapshotEntry{
		recipes:    recipes,
		expiresAt:  now.Add(c.config.TTL),
		createdAt:  now,
		lastAccess: now,
	}
	return recipes, nil
}

// snapshotKey 生成緩存鍵
func snapshotKey(cuisine string) string {
	if cuisine == "" {
		return "all"
	}
	return "cuisine:" + cuisine
}

// startCleanup 啟動清理過期快照的協程
func (c *SnapshotCache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			count := c.cleanup()
			c.mu.Unlock()
			if count > 0 {
				common.LogInfo("過期快照已清理",
					zap.Int("count", count),
				)
			}
		case <-c.done:
			return
		}
	}
}

// cleanup 清理過期的快照，呼叫端需持鎖
func (c *SnapshotCache) cleanup() int {
	now := time.Now()
	count := 0
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
			count++
			c.stats.evictions++
		}
	}
	return count
}

// evictLRU 淘汰最少訪問的快照，呼叫端需持鎖
func (c *SnapshotCache) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range c.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(c.store, oldestKey)
		c.stats.evictions++
		common.LogInfo("快照已淘汰(LRU)",
			zap.String("鍵", oldestKey),
		)
	}
}

// GetStats 獲取緩存統計信息
func (c *SnapshotCache) GetStats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.stats.hits + c.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(c.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"size":      len(c.store),
		"max_size":  c.config.MaxSize,
		"hits":      c.stats.hits,
		"misses":    c.stats.misses,
		"evictions": c.stats.evictions,
		"hit_ratio": hitRatio,
	}
}

// Close 關閉快照緩存
func (c *SnapshotCache) Close() {
	close(c.done)
	c.mu.Lock()
	c.store = make(map[string]snapshotEntry)
	c.mu.Unlock()
	common.LogInfo("快照緩存已關閉",
		zap.Int64("命中次數", c.stats.hits),
		zap.Int64("未命中次數", c.stats.misses),
	)
}
