package domain

// Command is one decoded client line. The concrete type carries the
// command kind; handlers dispatch with a single type switch.
type Command interface {
	isCommand()
}

type LoginCommand struct {
	Name     string `validate:"required,max=32"`
	Password string `validate:"required,max=72"`
}

type JoinCommand struct {
	Room string `validate:"required,max=64"`
}

type LeaveCommand struct{}

type UsersCommand struct{}

type ChatCommand struct {
	Text string
}

func (LoginCommand) isCommand() {}
func (JoinCommand) isCommand()  {}
func (LeaveCommand) isCommand() {}
func (UsersCommand) isCommand() {}
func (ChatCommand) isCommand()  {}
