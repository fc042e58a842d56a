package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"telnet-irc/errors"
)

func TestNewUser_RejectsEmptyFields(t *testing.T) {
	req := require.New(t)

	_, err := NewUser("", "hash")
	req.ErrorIs(err, errors.ErrEmptyUsername)

	_, err = NewUser("vasya", "")
	req.ErrorIs(err, errors.ErrEmptyPassword)
}

func TestUser_SessionTransitions(t *testing.T) {
	req := require.New(t)

	user, err := NewUser("vasya", "hash")
	req.NoError(err)
	req.False(user.Active())

	// inactive -> active succeeds exactly once
	req.True(user.StartSession())
	req.True(user.Active())
	req.False(user.StartSession())

	// active -> inactive succeeds exactly once
	req.True(user.CloseSession())
	req.False(user.Active())
	req.False(user.CloseSession())

	// a new session can be started after the old one closed
	req.True(user.StartSession())
}

func TestUser_FieldsAreKept(t *testing.T) {
	req := require.New(t)

	user, err := NewUser("vasya", "secret-hash")
	req.NoError(err)
	req.Equal("vasya", user.Username())
	req.Equal("secret-hash", user.PasswordHash())
}
