package service

import (
	"context"

	"janken_backend/internal/domain"
	"janken_backend/internal/game"
	"janken_backend/internal/logger"
	"janken_backend/internal/repository"
)

// GameService handles janken business logic. Every operation round-trips
// through the session repository; nothing is cached between requests.
type GameService struct {
	sessions *repository.SessionRepository
}

// NewGameService creates a new game service
func NewGameService(sessions *repository.SessionRepository) *GameService {
	return &GameService{sessions: sessions}
}

// StartSession creates a session for the given users and persists it.
// Returns the fresh session id.
func (s *GameService) StartSession(ctx context.Context, users []string) (string, error) {
	sess, err := game.NewSession(users)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", err
	}
	logger.Info("session started", "session_id", sess.ID, "users", len(sess.Users))
	return sess.ID, nil
}

// SubmitChoice records one user's hand under the session lock.
//
// Protocol: lock -> restore -> choose -> store -> unlock. The lock makes
// the read-modify-write a critical section; a concurrent submission for
// the same session fails fast with ErrLockContention and is retried by
// the client, never by us.
func (s *GameService) SubmitChoice(ctx context.Context, sessionID, user, handText string) (string, error) {
	hand, err := domain.ParseHand(handText)
	if err != nil {
		return "", err
	}

	release, err := s.sessions.Lock(ctx, sessionID)
	if err != nil {
		return "", err
	}
	defer release()

	sess, err := s.sessions.Restore(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if err := sess.Choose(user, hand); err != nil {
		return "", err
	}
	if err := s.sessions.Store(ctx, sess); err != nil {
		return "", err
	}

	logger.Info("choice submitted", "session_id", sessionID, "user", user)
	return sess.ID, nil
}

// GetSession returns the current session aggregate. Lock-free read: it
// may race with an in-flight submission and observe either side of it.
func (s *GameService) GetSession(ctx context.Context, sessionID string) (*game.Session, error) {
	return s.sessions.Restore(ctx, sessionID)
}

// GetResult judges the session if every user has chosen. Lock-free read
// for the same reason as GetSession; judging is idempotent once the
// session is closed.
func (s *GameService) GetResult(ctx context.Context, sessionID string) (domain.Result, error) {
	sess, err := s.sessions.Restore(ctx, sessionID)
	if err != nil {
		return domain.Result{}, err
	}
	return sess.Result()
}
