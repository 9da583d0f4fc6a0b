package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// CounterType тип счетчика
type CounterType string

const (
	CounterTypeNotifications  CounterType = "notifications"
	CounterTypeFriendRequests CounterType = "friend_requests"
)

const counterTTL = 24 * time.Hour

// Lua script: atomic counter adjust, clamped at zero, with TTL refresh.
var adjustCounterScript = redis.NewScript(`
	local key = KEYS[1]
	local delta = tonumber(ARGV[1])
	local current = tonumber(redis.call('GET', key)) or 0
	local updated = math.max(0, current + delta)
	redis.call('SET', key, updated)
	redis.call('EXPIRE', key, tonumber(ARGV[2]))
	return updated
`)

// CounterCache - кеш-поверхность, от которой зависят сервисы.
// *CounterService implements it.
type CounterCache interface {
	Increment(ctx context.Context, userID int64, counterType CounterType, delta int64)
	Get(ctx context.Context, userID int64, counterType CounterType) (int64, bool)
	Set(ctx context.Context, userID int64, counterType CounterType, value int64)
}

// CounterService кеширует per-user счетчики (непрочитанные уведомления,
// входящие заявки) в Redis. Best-effort: при недоступном Redis операции
// молча пропускаются, источником истины остается БД.
type CounterService struct {
	redisClient *redis.Client
}

// NewCounterService wires a counter cache; with a nil client the shared
// RedisClient is resolved at call time, after InitRedis has run.
func NewCounterService(redisClient *redis.Client) *CounterService {
	return &CounterService{redisClient: redisClient}
}

func (s *CounterService) client() *redis.Client {
	if s == nil {
		return nil
	}
	if s.redisClient != nil {
		return s.redisClient
	}
	return RedisClient
}

func (s *CounterService) key(userID int64, counterType CounterType) string {
	return fmt.Sprintf("counter:%d:%s", userID, counterType)
}

// Increment adjusts the cached counter by delta (may be negative).
func (s *CounterService) Increment(ctx context.Context, userID int64, counterType CounterType, delta int64) {
	client := s.client()
	if client == nil {
		return
	}
	key := s.key(userID, counterType)
	err := adjustCounterScript.Run(ctx, client, []string{key}, delta, int64(counterTTL.Seconds())).Err()
	if err != nil {
		log.Printf("counter: failed to adjust %s: %v", key, err)
	}
}

// Get returns the cached counter value. The second return value is false
// when the cache has no answer and the caller should fall back to the DB.
func (s *CounterService) Get(ctx context.Context, userID int64, counterType CounterType) (int64, bool) {
	client := s.client()
	if client == nil {
		return 0, false
	}
	val, err := client.Get(ctx, s.key(userID, counterType)).Int64()
	if err == redis.Nil {
		return 0, false
	}
	if err != nil {
		log.Printf("counter: failed to read %s: %v", s.key(userID, counterType), err)
		return 0, false
	}
	return val, true
}

// Set overwrites the cached counter, used when backfilling from the DB.
func (s *CounterService) Set(ctx context.Context, userID int64, counterType CounterType, value int64) {
	client := s.client()
	if client == nil {
		return
	}
	err := client.Set(ctx, s.key(userID, counterType), value, counterTTL).Err()
	if err != nil {
		log.Printf("counter: failed to set %s: %v", s.key(userID, counterType), err)
	}
}
