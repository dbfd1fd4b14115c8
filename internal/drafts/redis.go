package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"farelink_admin/internal/routebuilder"
)

// RedisStore keeps drafts as JSON with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func draftKey(companyID, id string) string {
	return fmt.Sprintf("draft:%s:%s", companyID, id)
}

func submitKey(companyID, id string) string {
	return draftKey(companyID, id) + ":submit"
}

func (s *RedisStore) Get(ctx context.Context, companyID, id string) (routebuilder.Draft, error) {
	raw, err := s.rdb.Get(ctx, draftKey(companyID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return routebuilder.Draft{}, ErrDraftNotFound
	}
	if err != nil {
		return routebuilder.Draft{}, fmt.Errorf("load draft %s: %w", id, err)
	}

	var d routebuilder.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return routebuilder.Draft{}, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return d, nil
}

func (s *RedisStore) Put(ctx context.Context, d routebuilder.Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", d.ID, err)
	}
	if err := s.rdb.Set(ctx, draftKey(d.CompanyID, d.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft %s: %w", d.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, companyID, id string) error {
	return s.rdb.Del(ctx, draftKey(companyID, id), submitKey(companyID, id)).Err()
}

func (s *RedisStore) AcquireSubmit(ctx context.Context, companyID, id string) (bool, error) {
	return s.rdb.SetNX(ctx, submitKey(companyID, id), 1, submitGuardTTL).Result()
}

func (s *RedisStore) ReleaseSubmit(ctx context.Context, companyID, id string) error {
	return s.rdb.Del(ctx, submitKey(companyID, id)).Err()
}
