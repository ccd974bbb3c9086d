package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"recipe-planner/internal/core/planner"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore 以 redis 持久化規劃器狀態
// 取代原網站的 browser localStorage：一個使用者一把鍵，整份 JSON 存取
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 建立 redis 儲存層並測試連線
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("規劃器儲存層已初始化",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
	)

	return &RedisStore{client: client}, nil
}

// Load 載入使用者的規劃器狀態
func (s *RedisStore) Load(ctx context.Context, userID string) (*planner.State, error) {
	data, err := s.client.Get(ctx, stateKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to load planner state: %w", err)
	}

	var state planner.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal planner state: %w", err)
	}
	return &state, nil
}

// Save 存回使用者的規劃器狀態（整份覆寫）
func (s *RedisStore) Save(ctx context.Context, userID string, state *planner.State) error {
	data, err := common.ToJSON(state)
	if err != nil {
		return fmt.Errorf("failed to marshal planner state: %w", err)
	}

	// 規劃器狀態不設 TTL，使用者清空時才移除
	if err := s.client.Set(ctx, stateKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save planner state: %w", err)
	}
	return nil
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// stateKey 生成儲存鍵
func stateKey(userID string) string {
	return fmt.Sprintf("planner:state:%s", userID)
}
