package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"janken_backend/internal/domain"
	"janken_backend/internal/game"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
)

func newTestRepo(t *testing.T) (*SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewSessionRepository(rdb, time.Hour, 5*time.Minute), mr
}

func TestCreateAndRestore(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	sess, _ := game.NewSession([]string{"alice", "bob"})
	sess.Choose("alice", domain.HandRock)

	if err := repo.Create(ctx, sess); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, err := repo.Restore(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if got.ID != sess.ID {
		t.Fatalf("restored id = %s; want %s", got.ID, sess.ID)
	}
	if len(got.Users) != 2 || got.Users[0] != "alice" || got.Users[1] != "bob" {
		t.Fatalf("restored users = %v", got.Users)
	}
	if got.Choices["alice"].Hand != domain.HandRock {
		t.Fatalf("restored alice hand = %s; want rock", got.Choices["alice"].Hand)
	}
}

func TestCreateNeverOverwrites(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	sess, _ := game.NewSession([]string{"alice", "bob"})
	if err := repo.Create(ctx, sess); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// same id, different content: second create is rejected
	clash := &game.Session{ID: sess.ID, Users: []string{"x", "y"}, Choices: map[string]domain.Choice{}}
	if err := repo.Create(ctx, clash); !errors.Is(err, domain.ErrSessionExists) {
		t.Fatalf("second Create = %v; want ErrSessionExists", err)
	}

	got, err := repo.Restore(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if got.Users[0] != "alice" {
		t.Fatalf("first write was overwritten: users = %v", got.Users)
	}
}

func TestRestoreMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	if _, err := repo.Restore(context.Background(), "no-such-id"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("Restore(missing) = %v; want ErrSessionNotFound", err)
	}
}

func TestSessionExpires(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	sess, _ := game.NewSession([]string{"alice", "bob"})
	if err := repo.Create(ctx, sess); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// valid just before the deadline
	mr.FastForward(time.Hour - time.Second)
	if _, err := repo.Restore(ctx, sess.ID); err != nil {
		t.Fatalf("Restore before expiry = %v", err)
	}

	mr.FastForward(2 * time.Second)
	if _, err := repo.Restore(ctx, sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("Restore after expiry = %v; want ErrSessionNotFound", err)
	}
}

func TestStoreRefreshesTTL(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	sess, _ := game.NewSession([]string{"alice", "bob"})
	if err := repo.Create(ctx, sess); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	mr.FastForward(40 * time.Minute)
	sess.Choose("alice", domain.HandPaper)
	if err := repo.Store(ctx, sess); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	// 40 + 40 min is past the original deadline but not the refreshed one
	mr.FastForward(40 * time.Minute)
	got, err := repo.Restore(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Restore after refresh = %v", err)
	}
	if got.Choices["alice"].Hand != domain.HandPaper {
		t.Fatalf("restored alice hand = %s; want paper", got.Choices["alice"].Hand)
	}
}

func TestStoreRequiresExistingRecord(t *testing.T) {
	repo, _ := newTestRepo(t)

	// store without a prior create models the record expiring inside the
	// critical section
	sess, _ := game.NewSession([]string{"alice", "bob"})
	if err := repo.Store(context.Background(), sess); !errors.Is(err, domain.ErrSessionExists) {
		t.Fatalf("Store(missing) = %v; want ErrSessionExists", err)
	}
}

func TestLockIsExclusive(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	release, err := repo.Lock(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Lock returned error: %v", err)
	}

	// non-blocking: second acquire fails immediately
	if _, err := repo.Lock(ctx, "sess-1"); !errors.Is(err, domain.ErrLockContention) {
		t.Fatalf("second Lock = %v; want ErrLockContention", err)
	}

	// a different session is unaffected
	release2, err := repo.Lock(ctx, "sess-2")
	if err != nil {
		t.Fatalf("Lock(sess-2) = %v", err)
	}
	release2()

	release()
	release3, err := repo.Lock(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Lock after release = %v", err)
	}
	release3()
}

func TestLockExpiresIfHolderStalls(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Lock(ctx, "sess-1"); err != nil {
		t.Fatalf("Lock returned error: %v", err)
	}

	mr.FastForward(5*time.Minute + time.Second)

	release, err := repo.Lock(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Lock after hold timeout = %v", err)
	}
	release()
}

func TestReleaseOnlyDeletesOwnLock(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	release, err := repo.Lock(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Lock returned error: %v", err)
	}

	// the holder stalls past the hold timeout and someone else takes over
	mr.FastForward(5*time.Minute + time.Second)
	release2, err := repo.Lock(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Lock after hold timeout = %v", err)
	}

	// the stale release must not free the new holder's lock
	release()
	if _, err := repo.Lock(ctx, "sess-1"); !errors.Is(err, domain.ErrLockContention) {
		t.Fatalf("Lock after stale release = %v; want ErrLockContention", err)
	}
	release2()
}
