package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 24 * time.Hour

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Dial parses redisURL, connects and pings.
func Dial(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(rdb, ttl), nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *RedisStore) keyGame(room string) string { return "clickchess:game:" + strings.TrimSpace(room) }
func (s *RedisStore) keyRooms() string           { return "clickchess:rooms" }

func (s *RedisStore) Load(ctx context.Context, room string) (*GameRecord, error) {
	raw, err := s.rdb.Get(ctx, s.keyGame(room)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", room, err)
	}
	var rec GameRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", room, err)
	}
	return &rec, nil
}

func (s *RedisStore) Save(ctx context.Context, rec *GameRecord) error {
	if rec == nil || strings.TrimSpace(rec.Room) == "" {
		return fmt.Errorf("save game: empty room")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode game: %w", err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.keyGame(rec.Room), raw, s.ttl)
		pipe.SAdd(ctx, s.keyRooms(), rec.Room)
		pipe.Expire(ctx, s.keyRooms(), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save game %s: %w", rec.Room, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, room string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.keyGame(room))
		pipe.SRem(ctx, s.keyRooms(), room)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete game %s: %w", room, err)
	}
	return nil
}

// Rooms lists rooms whose game key has not expired.
func (s *RedisStore) Rooms(ctx context.Context) ([]string, error) {
	rooms, err := s.rdb.SMembers(ctx, s.keyRooms()).Result()
	if err != nil {
		return nil, err
	}
	out := rooms[:0]
	for _, room := range rooms {
		n, err := s.rdb.Exists(ctx, s.keyGame(room)).Result()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			_ = s.rdb.SRem(ctx, s.keyRooms(), room).Err()
			continue
		}
		out = append(out, room)
	}
	return out, nil
}

// ParseRedisURL accepts any URL redis.ParseURL does (redis://, rediss://
// with TLS, query options) and a bare host:port.
func ParseRedisURL(raw string) (*redis.Options, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("redis url is empty")
	}
	if !strings.Contains(raw, "://") {
		return &redis.Options{Addr: raw}, nil
	}
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return opts, nil
}
