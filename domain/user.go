package domain

import (
	"sync/atomic"

	"telnet-irc/errors"
)

// User is a chat account. Username and password hash are immutable after
// creation; the active flag is the user's session and gates concurrent logins.
type User struct {
	username     string
	passwordHash string
	active       atomic.Bool
}

func NewUser(username, passwordHash string) (*User, error) {
	if username == "" {
		return nil, errors.ErrEmptyUsername
	}
	if passwordHash == "" {
		return nil, errors.ErrEmptyPassword
	}
	return &User{username: username, passwordHash: passwordHash}, nil
}

func (u *User) Username() string     { return u.username }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Active() bool         { return u.active.Load() }

// StartSession transitions the session from inactive to active.
// Returns false when a session is already running, so concurrent logins
// for the same user resolve to exactly one winner.
func (u *User) StartSession() bool {
	return u.active.CompareAndSwap(false, true)
}

// CloseSession transitions the session from active to inactive.
func (u *User) CloseSession() bool {
	return u.active.CompareAndSwap(true, false)
}
