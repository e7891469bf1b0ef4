package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix = "session:"
	idKeyPrefix    = "session:id:"
	userKeyPrefix  = "session:user:"
)

// RedisStore is a Redis-backed Store implementation.
// Sessions are stored as JSON under their token with a TTL derived from
// ExpiresAt, so Redis reclaims expired sessions on its own. Two index
// keys (session ID -> token, user ID -> set of session IDs) support
// deletion by ID and by user.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	if s.Token == "" || s.ID == "" {
		return ErrInvalidToken
	}
	return r.write(ctx, s)
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, tokenKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: get: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}
	if s.IsExpired() {
		_ = r.Delete(ctx, s.ID)
		return nil, ErrExpired
	}
	return &s, nil
}

func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	// Handle token rotation: if the ID index points at a different
	// token, the old session key must go away with the old token.
	oldToken, err := r.client.Get(ctx, idKeyPrefix+s.ID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("session: update: %w", err)
	}
	if oldToken != "" && oldToken != s.Token {
		if err := r.client.Del(ctx, tokenKeyPrefix+oldToken).Err(); err != nil {
			return fmt.Errorf("session: update: %w", err)
		}
	}
	return r.write(ctx, s)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	token, err := r.client.Get(ctx, idKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	if err := r.client.Del(ctx, tokenKeyPrefix+token, idKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

func (r *RedisStore) DeleteByUserID(ctx context.Context, userID string) error {
	ids, err := r.client.SMembers(ctx, userKeyPrefix+userID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("session: delete by user: %w", err)
	}
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return r.client.Del(ctx, userKeyPrefix+userID).Err()
}

func (r *RedisStore) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	token, err := r.client.Get(ctx, idKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("session: touch: %w", err)
	}

	sess, err := r.Get(ctx, token)
	if err != nil {
		return err
	}
	sess.LastActiveAt = lastActiveAt
	return r.write(ctx, sess)
}

// Sweep removes ID index entries whose session key already expired.
// Session and index keys carry the same TTL, but an index written a
// moment after its session outlives it briefly; the sweep keeps the
// keyspace tidy. Returns the number of entries removed.
func (r *RedisStore) Sweep(ctx context.Context) (int, error) {
	var removed int
	iter := r.client.Scan(ctx, 0, idKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		idKey := iter.Val()
		token, err := r.client.Get(ctx, idKey).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("session: sweep: %w", err)
		}
		exists, err := r.client.Exists(ctx, tokenKeyPrefix+token).Result()
		if err != nil {
			return removed, fmt.Errorf("session: sweep: %w", err)
		}
		if exists == 0 {
			if err := r.client.Del(ctx, idKey).Err(); err != nil {
				return removed, fmt.Errorf("session: sweep: %w", err)
			}
			removed++
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("session: sweep: %w", err)
	}
	return removed, nil
}

// write stores the session JSON and refreshes both index keys, all with
// a TTL derived from the session expiry.
func (r *RedisStore) write(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, tokenKeyPrefix+s.Token, data, ttl)
	pipe.Set(ctx, idKeyPrefix+s.ID, s.Token, ttl)
	if s.User != nil && s.User.ID != "" {
		pipe.SAdd(ctx, userKeyPrefix+s.User.ID, s.ID)
		pipe.Expire(ctx, userKeyPrefix+s.User.ID, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}
