package persistence

import (
	"context"
	"encoding/json"
	"sync"

	"recipe-planner/internal/core/planner"
)

// MemoryStore 記憶體版規劃器儲存，redis 關閉時與測試用
// 存取都走 JSON 序列化，行為與 redis 版一致（呼叫端拿到的是副本）
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string][]byte
}

// NewMemoryStore 建立記憶體儲存層
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: make(map[string][]byte)}
}

// Load 載入使用者的規劃器狀態
func (s *MemoryStore) Load(ctx context.Context, userID string) (*planner.State, error) {
	s.mu.RLock()
	data, ok := s.store[stateKey(userID)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}

	var state planner.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save 存回使用者的規劃器狀態
func (s *MemoryStore) Save(ctx context.Context, userID string, state *planner.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.store[stateKey(userID)] = data
	s.mu.Unlock()
	return nil
}

// Close 清空儲存
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.store = make(map[string][]byte)
	s.mu.Unlock()
	return nil
}
