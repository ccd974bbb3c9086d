package persistence

import (
	"context"
	"errors"

	"recipe-planner/internal/core/planner"
)

// ErrStateNotFound 表示該使用者還沒有任何規劃器狀態
var ErrStateNotFound = errors.New("planner state not found")

// Store 規劃器狀態的儲存介面
// 核心邏輯只吃整份快照、回傳整份快照，持久化時機由外層決定
type Store interface {
	Load(ctx context.Context, userID string) (*planner.State, error)
	Save(ctx context.Context, userID string, state *planner.State) error
	Close() error
}
