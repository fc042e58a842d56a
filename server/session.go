package server

// Session is the per-connection protocol state. It is owned by exactly one
// connection and mutated only by handlers running on behalf of it, so no
// locking is needed. The transport may read it but never writes it.
type Session struct {
	Username string
	Room     string
}

func (s *Session) Authenticated() bool { return s.Username != "" }
func (s *Session) InRoom() bool        { return s.Room != "" }
