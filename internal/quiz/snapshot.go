package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/quizzer/backend/internal/models"
)

// Snapshot is the persisted form of a non-terminal session: everything
// needed to resume at the saved index. One snapshot per user, under a
// single fixed key, so at most one session is ever persisted.
type Snapshot struct {
	Questions            []models.Question `json:"questions"`
	CurrentQuestionIndex int               `json:"current_question_index"`
	UserAnswers          []string          `json:"user_answers"`
	Config               models.QuizConfig `json:"config"`
}

// SnapshotStore persists in-progress sessions plus the last-used config
// (which outlives the session so reassess works after completion).
// Load returns (nil, nil) when no snapshot exists.
type SnapshotStore interface {
	Save(ctx context.Context, userID int64, snap *Snapshot) error
	Load(ctx context.Context, userID int64) (*Snapshot, error)
	Clear(ctx context.Context, userID int64) error

	SaveLastConfig(ctx context.Context, userID int64, config models.QuizConfig) error
	LoadLastConfig(ctx context.Context, userID int64) (*models.QuizConfig, error)
	ClearLastConfig(ctx context.Context, userID int64) error
}

// ── RedisStore — Production ────────────────────────────────

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func progressKey(userID int64) string {
	return fmt.Sprintf("quiz:progress:%d", userID)
}

func lastConfigKey(userID int64) string {
	return fmt.Sprintf("quiz:lastconfig:%d", userID)
}

func (s *RedisStore) Save(ctx context.Context, userID int64, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, progressKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, userID int64) (*Snapshot, error) {
	data, err := s.rdb.Get(ctx, progressKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// A corrupt snapshot is treated as absent: clear it and resume Idle.
		log.Printf("[quiz] discarding corrupt snapshot for user %d: %v", userID, err)
		s.rdb.Del(ctx, progressKey(userID))
		return nil, nil
	}
	return &snap, nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, progressKey(userID)).Err()
}

func (s *RedisStore) SaveLastConfig(ctx context.Context, userID int64, config models.QuizConfig) error {
	data, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := s.rdb.Set(ctx, lastConfigKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("save last config: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadLastConfig(ctx context.Context, userID int64) (*models.QuizConfig, error) {
	data, err := s.rdb.Get(ctx, lastConfigKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load last config: %w", err)
	}

	var config models.QuizConfig
	if err := json.Unmarshal(data, &config); err != nil {
		log.Printf("[quiz] discarding corrupt last config for user %d: %v", userID, err)
		s.rdb.Del(ctx, lastConfigKey(userID))
		return nil, nil
	}
	return &config, nil
}

func (s *RedisStore) ClearLastConfig(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, lastConfigKey(userID)).Err()
}

// ── MemoryStore — Local Development and Tests ──────────────

// MemoryStore keeps serialized snapshots in a map. Storing bytes rather than
// pointers keeps the save/load round trip honest.
type MemoryStore struct {
	mu          sync.Mutex
	snapshots   map[int64][]byte
	lastConfigs map[int64][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots:   make(map[int64][]byte),
		lastConfigs: make(map[int64][]byte),
	}
}

func (s *MemoryStore) Save(ctx context.Context, userID int64, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[userID] = data
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, userID int64) (*Snapshot, error) {
	s.mu.Lock()
	data, ok := s.snapshots[userID]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.Clear(ctx, userID)
		return nil, nil
	}
	return &snap, nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, userID)
	return nil
}

func (s *MemoryStore) SaveLastConfig(ctx context.Context, userID int64, config models.QuizConfig) error {
	data, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastConfigs[userID] = data
	return nil
}

func (s *MemoryStore) LoadLastConfig(ctx context.Context, userID int64) (*models.QuizConfig, error) {
	s.mu.Lock()
	data, ok := s.lastConfigs[userID]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var config models.QuizConfig
	if err := json.Unmarshal(data, &config); err != nil {
		s.ClearLastConfig(ctx, userID)
		return nil, nil
	}
	return &config, nil
}

func (s *MemoryStore) ClearLastConfig(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lastConfigs, userID)
	return nil
}
