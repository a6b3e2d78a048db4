package game

import (
	"slices"

	"janken_backend/internal/domain"

	"github.com/google/uuid"
)

// Session - одна партия между фиксированным списком игроков.
//
// The aggregate is a plain value: it is restored from the store, mutated
// in memory and written back. Cross-request serialization is the store's
// job, not the session's.
type Session struct {
	ID      string
	Users   []string
	Choices map[string]domain.Choice
}

// NewSession mints a session with a fresh id. The user list is fixed for
// the session's lifetime; fewer than two users is rejected here, at the
// boundary, rather than coerced.
func NewSession(users []string) (*Session, error) {
	if len(users) < 2 {
		return nil, domain.ErrNotEnoughUsers
	}
	return &Session{
		ID:      uuid.NewString(),
		Users:   slices.Clone(users),
		Choices: make(map[string]domain.Choice),
	}, nil
}

// Choose records the user's hand. Each user gets exactly one choice.
func (s *Session) Choose(user string, hand domain.Hand) error {
	if _, ok := s.Choices[user]; ok {
		return domain.ErrAlreadyChosen
	}
	if !slices.Contains(s.Users, user) {
		return domain.ErrNotInSession
	}
	s.Choices[user] = domain.Choice{User: user, Hand: hand}
	return nil
}

// Closed reports whether every user has committed a choice.
func (s *Session) Closed() bool {
	for _, user := range s.Users {
		if _, ok := s.Choices[user]; !ok {
			return false
		}
	}
	return true
}

// Result judges the session. Read-only and repeatable: the session is not
// frozen after the first successful judgment, it simply stops changing
// once everyone has chosen.
func (s *Session) Result() (domain.Result, error) {
	if !s.Closed() {
		return domain.Result{}, domain.ErrSessionNotClosed
	}
	return Judge(s.Users, s.Choices), nil
}
