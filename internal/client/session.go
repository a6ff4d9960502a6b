package client

import "sync"

// Session holds the logged-in user for one device session. The zero value is
// a logged-out session.
type Session struct {
	mu   sync.RWMutex
	user *User
}

func (s *Session) SetUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// User returns the authenticated user, or nil when nobody is logged in.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}
