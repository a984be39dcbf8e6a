package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "wizard:session:" // wizard:session:{session_id}
	userSessionPrefix = "wizard:user:"    // set of session ids: wizard:user:{user_id}
	submitKeyPrefix   = "wizard:submit:"  // final-step lock: wizard:submit:{session_id}
)

// SessionStore keeps wizard sessions in Redis. Every write refreshes the TTL,
// so a session expires ttl after its last step.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (r *SessionStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal wizard session: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.sessionKey(s.ID), data, r.ttl)
	pipe.SAdd(ctx, r.userKey(s.UserID), s.ID)
	pipe.Expire(ctx, r.userKey(s.UserID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}
	return nil
}

func (r *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wizard session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wizard session: %w", err)
	}
	return &s, nil
}

// ListByUser returns the user's live sessions. Ids whose session already
// expired are dropped from the user set on the way.
func (r *SessionStore) ListByUser(ctx context.Context, userID string) ([]*Session, error) {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list wizard sessions: %w", err)
	}

	out := make([]*Session, 0, len(ids))
	var stale []any
	for _, id := range ids {
		s, err := r.Get(ctx, id)
		if errors.Is(err, ErrSessionNotFound) {
			stale = append(stale, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if len(stale) > 0 {
		if err := r.client.SRem(ctx, r.userKey(userID), stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune wizard sessions: %w", err)
		}
	}
	return out, nil
}

func (r *SessionStore) Delete(ctx context.Context, s *Session) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.sessionKey(s.ID))
	pipe.SRem(ctx, r.userKey(s.UserID), s.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete wizard session: %w", err)
	}
	return nil
}

// ClaimSubmit takes the final-step lock for s. Only one caller gets true
// until the lock is released or expires.
func (r *SessionStore) ClaimSubmit(ctx context.Context, s *Session) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.submitKey(s.ID), s.UserID, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to lock wizard submit: %w", err)
	}
	return ok, nil
}

func (r *SessionStore) ReleaseSubmit(ctx context.Context, s *Session) error {
	if err := r.client.Del(ctx, r.submitKey(s.ID)).Err(); err != nil {
		return fmt.Errorf("failed to unlock wizard submit: %w", err)
	}
	return nil
}

func (r *SessionStore) sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *SessionStore) userKey(userID string) string {
	return userSessionPrefix + userID
}

func (r *SessionStore) submitKey(id string) string {
	return submitKeyPrefix + id
}
