package errors

import "fmt"

var (
	ErrEmptyUsername  = fmt.Errorf("username is empty")
	ErrEmptyPassword  = fmt.Errorf("password is empty")
	ErrEmptyText      = fmt.Errorf("message text is empty")
	ErrNilSink        = fmt.Errorf("connection sink is nil")
	ErrInvalidCommand = fmt.Errorf("invalid command")
	ErrUnknownCommand = fmt.Errorf("unknown command")
	ErrRoomConfig     = fmt.Errorf("invalid room configuration")
	ErrInvalidHash    = fmt.Errorf("invalid password hash format")
)
