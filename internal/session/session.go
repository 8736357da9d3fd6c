// Package session holds the client-local authentication flag.
//
// There is no token, no storage and no rehydration: the session lives for
// the process lifetime and a restart starts logged out. Credential checking
// belongs to the login collaborator, not here.
package session

type Session struct {
	authenticated bool
	user          string
}

func New() *Session { return &Session{} }

func (s *Session) Login(user string) {
	s.authenticated = true
	s.user = user
}

func (s *Session) Logout() {
	s.authenticated = false
	s.user = ""
}

func (s *Session) Authenticated() bool { return s.authenticated }

// User returns the opaque user value set at login, empty when logged out.
func (s *Session) User() string { return s.user }
