package services

import (
	"RelayBot/internal/core/domain"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SessionStore keeps per-user conversational state for the process lifetime
// (minus whatever the janitor evicts).
type SessionStore struct {
	mu              sync.RWMutex
	sessions        map[int64]*domain.Session
	defaultLanguage string
	now             func() time.Time
	log             zerolog.Logger
}

// NewSessionStore creates an empty store.
func NewSessionStore(defaultLanguage string, baseLogger *zerolog.Logger) *SessionStore {
	return &SessionStore{
		sessions:        make(map[int64]*domain.Session),
		defaultLanguage: defaultLanguage,
		now:             time.Now,
		log:             baseLogger.With().Str("component", "session_store").Logger(),
	}
}

// Upsert creates the session or refreshes its display info.
func (s *SessionStore) Upsert(userID int64, info domain.DisplayInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID)
	sess.Display = info
}

// Exists reports whether the user has interacted before.
func (s *SessionStore) Exists(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[userID]
	return ok
}

// Get returns a copy of the session.
func (s *SessionStore) Get(userID int64) (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return domain.Session{}, false
	}
	return *sess, true
}

// Language returns the user's language, or the default when unset.
func (s *SessionStore) Language(userID int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[userID]; ok && sess.Language != "" {
		return sess.Language
	}
	return s.defaultLanguage
}

// SetLanguage stores code as-is; unknown codes fall back at render time.
func (s *SessionStore) SetLanguage(userID int64, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreateLocked(userID).Language = code
	s.log.Debug().Int64("user_id", userID).Str("language", code).Msg("Language set")
}

// RecordSubmission remembers the user's most recent accepted submission.
func (s *SessionStore) RecordSubmission(userID int64, sub domain.Submission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getOrCreateLocked(userID).LastSubmission = &sub
}

// EvictIdle drops sessions not seen since before and returns how many.
func (s *SessionStore) EvictIdle(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(before) {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.log.Info().Int("evicted", evicted).Int("remaining", len(s.sessions)).Msg("Evicted idle sessions")
	}
	return evicted
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) getOrCreateLocked(userID int64) *domain.Session {
	now := s.now()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &domain.Session{UserID: userID, CreatedAt: now}
		s.sessions[userID] = sess
		s.log.Info().Int64("user_id", userID).Msg("New session")
	}
	sess.LastSeen = now
	return sess
}
