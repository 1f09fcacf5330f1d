package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gayathriimasha/smart-campus-mis/internal/report"
)

const maxWatchRetries = 5

// RedisStore keeps sessions as JSON values in Redis, guarded with WATCH transactions.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisStore constructs a Redis-backed store. Sessions expire after ttl of inactivity.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl, prefix: "reports:session:v1:", now: time.Now}
}

func (r *RedisStore) key(viewer string) string {
	return r.prefix + viewer
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisStore) read(ctx context.Context, getter getter, viewer string) (Session, error) {
	raw, err := getter.Get(ctx, r.key(viewer)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{Viewer: viewer}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

// update runs mutate inside a WATCH transaction on the viewer's key.
func (r *RedisStore) update(ctx context.Context, viewer string, mutate func(*Session) error) (Session, error) {
	key := r.key(viewer)
	var result Session

	txf := func(tx *redis.Tx) error {
		s, err := r.read(ctx, tx, viewer)
		if err != nil {
			return err
		}
		if err := mutate(&s); err != nil {
			result = s
			return err
		}
		payload, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		if err == nil {
			result = s
		}
		return err
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return result, err
	}
	return Session{}, fmt.Errorf("update session %s: too many concurrent writers", viewer)
}

func (r *RedisStore) Get(ctx context.Context, viewer string) (Session, error) {
	return r.read(ctx, r.client, viewer)
}

func (r *RedisStore) Begin(ctx context.Context, viewer string, kind report.Kind) (int64, error) {
	s, err := r.update(ctx, viewer, func(s *Session) error {
		begin(s, kind, r.now())
		return nil
	})
	return s.Generation, err
}

func (r *RedisStore) Commit(ctx context.Context, viewer string, generation int64, records report.Records) (Session, error) {
	return r.update(ctx, viewer, func(s *Session) error {
		if s.Generation != generation {
			return ErrSuperseded
		}
		commit(s, records, r.now())
		return nil
	})
}

func (r *RedisStore) SetNotice(ctx context.Context, viewer string, generation int64, message string) (Session, error) {
	return r.update(ctx, viewer, func(s *Session) error {
		if s.Generation != generation {
			return ErrSuperseded
		}
		notice(s, message, r.now())
		return nil
	})
}

func (r *RedisStore) SetWindow(ctx context.Context, viewer string, window report.DateWindow) (Session, error) {
	return r.update(ctx, viewer, func(s *Session) error {
		s.Window = window
		s.UpdatedAt = r.now()
		return nil
	})
}
