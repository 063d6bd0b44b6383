package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"daily-bread/internal/calendar"

	"github.com/redis/go-redis/v9"
)

// KV is the small cache contract behind drafts and preferences. This state
// is ephemeral UI state, deliberately outside the completion ledger's
// durability guarantees.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type redisKV struct{ rdb *redis.Client }

func NewRedisKV(rdb *redis.Client) KV { return &redisKV{rdb: rdb} }

func (r *redisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *redisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *redisKV) Del(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

type memEntry struct {
	value   string
	expires time.Time
}

type memKV struct {
	mu   sync.Mutex
	data map[string]memEntry
}

// NewMemKV is the in-process fallback used when no Redis is configured, and
// the fake store in tests.
func NewMemKV() KV { return &memKV{data: make(map[string]memEntry)} }

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[key]
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(m.data, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *memKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memEntry{value: value}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	m.data[key] = e
	return nil
}

func (m *memKV) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// draftTTL keeps abandoned drafts from accumulating forever.
const draftTTL = 14 * 24 * time.Hour

// PrefsService stores per-user preferences and per-unit, per-day reflection
// drafts.
type PrefsService struct{ kv KV }

func NewPrefsService(kv KV) *PrefsService { return &PrefsService{kv: kv} }

func draftKey(userID, unitID int, day calendar.Day) string {
	return fmt.Sprintf("draft:%d:%d:%s", userID, unitID, day)
}

func prefKey(userID int, name string) string {
	return fmt.Sprintf("pref:%d:%s", userID, name)
}

func (s *PrefsService) SaveDraft(ctx context.Context, userID, unitID int, day calendar.Day, text string) error {
	return s.kv.Set(ctx, draftKey(userID, unitID, day), text, draftTTL)
}

func (s *PrefsService) Draft(ctx context.Context, userID, unitID int, day calendar.Day) (string, bool, error) {
	return s.kv.Get(ctx, draftKey(userID, unitID, day))
}

func (s *PrefsService) ClearDraft(ctx context.Context, userID, unitID int, day calendar.Day) error {
	return s.kv.Del(ctx, draftKey(userID, unitID, day))
}

func (s *PrefsService) SetPref(ctx context.Context, userID int, name, value string) error {
	return s.kv.Set(ctx, prefKey(userID, name), value, 0)
}

func (s *PrefsService) Pref(ctx context.Context, userID int, name string) (string, bool, error) {
	return s.kv.Get(ctx, prefKey(userID, name))
}
