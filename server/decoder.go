package server

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"telnet-irc/domain"
	"telnet-irc/errors"
)

var validate = validator.New()

// Decode turns one client line into a command. Lines starting with "/" are
// operations; anything else is chat text sent verbatim to the current room.
func Decode(line string) (domain.Command, error) {
	line = strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, errors.ErrEmptyText
	}

	if !strings.HasPrefix(trimmed, "/") {
		return domain.ChatCommand{Text: line}, nil
	}

	parts := strings.Fields(trimmed)
	name, args := parts[0], parts[1:]

	switch name {
	case "/login":
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: /login expects <name> <password>", errors.ErrInvalidCommand)
		}
		cmd := domain.LoginCommand{Name: args[0], Password: args[1]}
		if err := validate.Struct(cmd); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err)
		}
		return cmd, nil
	case "/join":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: /join expects <channel>", errors.ErrInvalidCommand)
		}
		cmd := domain.JoinCommand{Room: args[0]}
		if err := validate.Struct(cmd); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err)
		}
		return cmd, nil
	case "/leave":
		return domain.LeaveCommand{}, nil
	case "/users":
		return domain.UsersCommand{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownCommand, name)
	}
}
