package telegram

import "sync"

// chatSession per-user conversation state
type chatSession struct {
	DraftID string
	OrgID   string

	// AwaitingFacingSku SKU picked from the keyboard whose count is expected next
	AwaitingFacingSku string
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]chatSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[int64]chatSession)}
}

func (s *sessionStore) get(userID int64) (chatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// open binds a new draft and returns the draft it replaced, if any
func (s *sessionStore) open(userID int64, draftID, orgID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.sessions[userID]
	s.sessions[userID] = chatSession{DraftID: draftID, OrgID: orgID}
	return prev.DraftID, ok && prev.DraftID != ""
}

// close forgets the session only if it still points at draftID
func (s *sessionStore) close(userID int64, draftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok && sess.DraftID == draftID {
		delete(s.sessions, userID)
	}
}

func (s *sessionStore) setAwaitingFacing(userID int64, skuID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return false
	}
	sess.AwaitingFacingSku = skuID
	s.sessions[userID] = sess
	return true
}

// popAwaitingFacing returns and clears the pending facing SKU
func (s *sessionStore) popAwaitingFacing(userID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok || sess.AwaitingFacingSku == "" {
		return "", false
	}
	sku := sess.AwaitingFacingSku
	sess.AwaitingFacingSku = ""
	s.sessions[userID] = sess
	return sku, true
}
