package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"janken_backend/internal/domain"
	"janken_backend/internal/game"
	"janken_backend/internal/logger"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const (
	// DefaultSessionTTL bounds the lifetime of abandoned games.
	DefaultSessionTTL = time.Hour
	// DefaultLockTTL auto-releases a lock whose holder crashed mid-write.
	// Must exceed any realistic critical section by a wide margin.
	DefaultLockTTL = 5 * time.Minute

	sessionKeyPrefix = "janken:session:"
	lockKeyPrefix    = "janken:session_lock:"

	recordSchemaVersion = 1
)

// sessionRecord is the versioned wire form of a session in Redis.
// Version is checked on read; bump it when the layout changes.
type sessionRecord struct {
	Version int               `json:"v"`
	ID      string            `json:"session_id"`
	Users   []string          `json:"users"`
	Choices map[string]string `json:"choices"`
}

// unlockScript deletes the lock only if we still own it, so a slow
// request can't release a lock that already timed out and was re-taken.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
end
return 0
`)

// SessionRepository stores session aggregates in Redis with a sliding TTL
// and provides the per-session advisory lock that serializes writers.
// Redis is the single source of truth: no session lives in process memory
// across requests.
type SessionRepository struct {
	rdb        *redis.Client
	sessionTTL time.Duration
	lockTTL    time.Duration
}

// NewSessionRepository creates a repository over a shared Redis client.
// Zero TTLs fall back to the defaults.
func NewSessionRepository(rdb *redis.Client, sessionTTL, lockTTL time.Duration) *SessionRepository {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &SessionRepository{rdb: rdb, sessionTTL: sessionTTL, lockTTL: lockTTL}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func lockKey(id string) string {
	return lockKeyPrefix + id
}

// Create writes the session only if no record exists for its id (SET NX EX).
// Ids are random uuids, so a collision is practically unreachable; if it
// does happen the caller learns about it instead of overwriting.
func (r *SessionRepository) Create(ctx context.Context, s *game.Session) error {
	val, err := marshalSession(s)
	if err != nil {
		return err
	}
	ok, err := r.rdb.SetNX(ctx, sessionKey(s.ID), val, r.sessionTTL).Result()
	if err != nil {
		return fmt.Errorf("create session %s: %w", s.ID, err)
	}
	if !ok {
		return domain.ErrSessionExists
	}
	return nil
}

// Store overwrites the record and refreshes its TTL. It is meant to be
// called while holding the session's lock after a successful Restore, so
// the record must still exist (SET XX EX); a miss means it expired or was
// deleted mid-critical-section.
func (r *SessionRepository) Store(ctx context.Context, s *game.Session) error {
	val, err := marshalSession(s)
	if err != nil {
		return err
	}
	ok, err := r.rdb.SetXX(ctx, sessionKey(s.ID), val, r.sessionTTL).Result()
	if err != nil {
		return fmt.Errorf("store session %s: %w", s.ID, err)
	}
	if !ok {
		return domain.ErrSessionExists
	}
	return nil
}

// Restore reads the record for id. The returned session is an exclusive
// copy owned by the caller for the duration of one operation; it must be
// written back with Store or discarded, never cached.
func (r *SessionRepository) Restore(ctx context.Context, id string) (*game.Session, error) {
	val, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	return unmarshalSession(val)
}

// Lock acquires the advisory per-session lock. Acquisition is
// non-blocking: a held lock fails immediately with ErrLockContention and
// the caller decides whether to retry. The returned release func is safe
// on every exit path and only deletes a lock we still own.
func (r *SessionRepository) Lock(ctx context.Context, id string) (func(), error) {
	token := uuid.NewString()
	ok, err := r.rdb.SetNX(ctx, lockKey(id), token, r.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("lock session %s: %w", id, err)
	}
	if !ok {
		return nil, domain.ErrLockContention
	}
	release := func() {
		// Release must work even when the request context is already
		// canceled, otherwise the lock lingers for its full TTL.
		ctx := context.WithoutCancel(ctx)
		if err := unlockScript.Run(ctx, r.rdb, []string{lockKey(id)}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			logger.Warn("failed to release session lock", "session_id", id, "error", err)
		}
	}
	return release, nil
}

func marshalSession(s *game.Session) ([]byte, error) {
	rec := sessionRecord{
		Version: recordSchemaVersion,
		ID:      s.ID,
		Users:   s.Users,
		Choices: make(map[string]string, len(s.Choices)),
	}
	for user, choice := range s.Choices {
		rec.Choices[user] = choice.Hand.String()
	}
	return json.Marshal(rec)
}

func unmarshalSession(val []byte) (*game.Session, error) {
	var rec sessionRecord
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	if rec.Version != recordSchemaVersion {
		return nil, fmt.Errorf("unsupported session record version %d", rec.Version)
	}
	s := &game.Session{
		ID:      rec.ID,
		Users:   rec.Users,
		Choices: make(map[string]domain.Choice, len(rec.Choices)),
	}
	for user, handText := range rec.Choices {
		hand, err := domain.ParseHand(handText)
		if err != nil {
			return nil, fmt.Errorf("decode session record: user %s: %w", user, err)
		}
		s.Choices[user] = domain.Choice{User: user, Hand: hand}
	}
	return s, nil
}
