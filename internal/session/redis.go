package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"summaryplus/internal/models"
	"summaryplus/internal/redis"
)

const redisKeyPrefix = "summaryplus:session:"

// RedisStore keeps sessions in redis as JSON values with a per-key TTL.
// This is the external store required once the service runs as more than
// one instance. Mutations are read-modify-write on the whole record;
// concurrent writers to the same session last-write-win, matching the
// contract of the in-memory map it replaces.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) GetOrCreate(ctx context.Context, id string) (*models.Session, error) {
	if id != "" {
		sess, err := s.Get(ctx, id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	for i := 0; i < 5; i++ {
		newID, err := NewID()
		if err != nil {
			return nil, err
		}
		sess := models.NewSession(newID)
		payload, err := json.Marshal(sess)
		if err != nil {
			return nil, fmt.Errorf("encode session: %w", err)
		}
		ok, err := s.client.SetNX(ctx, redisKeyPrefix+newID, payload, s.ttl)
		if err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
		if ok {
			return sess, nil
		}
	}
	return nil, errors.New("could not mint session id")
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	raw, err := s.client.Get(ctx, redisKeyPrefix+id)
	if err != nil {
		if errors.Is(err, redis.ErrCacheMiss) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.Files == nil {
		sess.Files = make(map[string]*models.StoredFile)
	}
	return &sess, nil
}

func (s *RedisStore) AddFile(ctx context.Context, sessionID string, file *models.StoredFile) error {
	return s.update(ctx, sessionID, func(sess *models.Session) {
		sess.Files[file.ID] = file
		sess.FileOrder = append(sess.FileOrder, file.ID)
	})
}

func (s *RedisStore) AppendTurns(ctx context.Context, sessionID string, turns ...models.ChatTurn) error {
	return s.update(ctx, sessionID, func(sess *models.Session) {
		sess.History = append(sess.History, turns...)
	})
}

func (s *RedisStore) update(ctx context.Context, sessionID string, mutate func(*models.Session)) error {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	mutate(sess)
	sess.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.Set(ctx, redisKeyPrefix+sessionID, payload, s.ttl)
}
