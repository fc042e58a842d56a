package services

import (
	"fmt"
	"log/slog"
	"sync"

	"telnet-irc/auth"
	"telnet-irc/domain"
	"telnet-irc/errors"
)

// AuthResult is the outcome of one authentication attempt.
type AuthResult int

const (
	Authenticated AuthResult = iota
	IncorrectPassword
	AlreadyAuthenticated
)

func (r AuthResult) String() string {
	switch r {
	case Authenticated:
		return "authenticated"
	case IncorrectPassword:
		return "incorrect password"
	case AlreadyAuthenticated:
		return "already authenticated"
	default:
		return "unknown"
	}
}

type IAuthService interface {
	Authenticate(username, password string) (AuthResult, error)
	Logout(username string) (bool, error)
}

// AuthService owns every user record and enforces at most one active
// session per username. Users live for the process lifetime.
type AuthService struct {
	users sync.Map // username -> *domain.User
	log   *slog.Logger
}

func NewAuthService(log *slog.Logger) *AuthService {
	return &AuthService{log: log}
}

// Authenticate signs a user in. An unknown username is registered on the
// spot with the given password; a known one must present the stored
// password. Session start is a CAS on the user's active flag, so two
// connections racing for the same user resolve to one Authenticated and
// one AlreadyAuthenticated.
func (s *AuthService) Authenticate(username, password string) (AuthResult, error) {
	if username == "" {
		return 0, errors.ErrEmptyUsername
	}
	if password == "" {
		return 0, errors.ErrEmptyPassword
	}

	user, err := s.lookupOrCreate(username, password)
	if err != nil {
		return 0, err
	}

	match, err := auth.ComparePassword(password, user.PasswordHash())
	if err != nil {
		return 0, fmt.Errorf("password check for %q: %w", username, err)
	}
	if !match {
		return IncorrectPassword, nil
	}

	if !user.StartSession() {
		return AlreadyAuthenticated, nil
	}
	s.log.Info("session started", "user", username)
	return Authenticated, nil
}

// lookupOrCreate resolves the creation race with LoadOrStore: both callers
// hash and build a candidate user, exactly one candidate is installed and
// both proceed to contend for the session CAS.
func (s *AuthService) lookupOrCreate(username, password string) (*domain.User, error) {
	if got, ok := s.users.Load(username); ok {
		return got.(*domain.User), nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := domain.NewUser(username, hash)
	if err != nil {
		return nil, err
	}

	actual, _ := s.users.LoadOrStore(username, user)
	return actual.(*domain.User), nil
}

// Logout closes the user's session. Returns false when the user is unknown
// or had no active session.
func (s *AuthService) Logout(username string) (bool, error) {
	if username == "" {
		return false, errors.ErrEmptyUsername
	}

	got, ok := s.users.Load(username)
	if !ok {
		return false, nil
	}
	closed := got.(*domain.User).CloseSession()
	if closed {
		s.log.Info("session closed", "user", username)
	}
	return closed, nil
}
