package service

import (
	"errors"
	"sync"
	"time"

	authDomain "github.com/allisson/securevault/internal/auth/domain"
)

// ErrChallengeExists indicates a challenge with the same value is already stored.
var ErrChallengeExists = errors.New("challenge already exists")

// memoryChallengeStore keeps challenges in a mutex guarded map.
// Challenges are process local; a restart invalidates every outstanding one.
type memoryChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]*authDomain.Challenge
}

// NewChallengeStore creates an empty in-memory ChallengeStore.
func NewChallengeStore() ChallengeStore {
	return &memoryChallengeStore{
		challenges: make(map[string]*authDomain.Challenge),
	}
}

// Put stores a copy of challenge.
func (s *memoryChallengeStore) Put(challenge *authDomain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.challenges[challenge.Value]; ok {
		return ErrChallengeExists
	}
	stored := *challenge
	s.challenges[challenge.Value] = &stored
	return nil
}

// Consume checks unknown, then expired, then consumed, and marks the entry
// consumed whatever the outcome.
func (s *memoryChallengeStore) Consume(value string, now time.Time) authDomain.AuthStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, ok := s.challenges[value]
	if !ok {
		return authDomain.AuthStatusChallengeUnknown
	}

	wasConsumed := challenge.Consumed
	challenge.Consumed = true

	switch {
	case challenge.IsExpired(now):
		return authDomain.AuthStatusChallengeExpired
	case wasConsumed:
		return authDomain.AuthStatusChallengeAlreadyConsumed
	default:
		return authDomain.AuthStatusSuccess
	}
}

// PurgeExpired drops expired challenges, consumed or not.
func (s *memoryChallengeStore) PurgeExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for value, challenge := range s.challenges {
		if challenge.IsExpired(now) {
			delete(s.challenges, value)
			purged++
		}
	}
	return purged
}

// Len returns the number of stored challenges.
func (s *memoryChallengeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.challenges)
}
