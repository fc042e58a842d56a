package server

import (
	"log/slog"
	"strings"

	"telnet-irc/chat"
	"telnet-irc/contract"
	"telnet-irc/domain"
	"telnet-irc/messages"
	"telnet-irc/moderation"
	"telnet-irc/services"
)

// Router dispatches decoded commands to their handlers. Handlers for one
// connection run sequentially; handlers for different connections run
// concurrently and may hit the same room.
type Router struct {
	auth      services.IAuthService
	rooms     *chat.Registry
	moderator *moderation.Moderator // nil disables censoring
	log       *slog.Logger
}

func NewRouter(auth services.IAuthService, rooms *chat.Registry, moderator *moderation.Moderator, log *slog.Logger) *Router {
	return &Router{auth: auth, rooms: rooms, moderator: moderator, log: log}
}

// Dispatch handles one command for the given session and sink. It reports
// whether the connection should be closed afterwards; only /leave asks
// for that.
func (r *Router) Dispatch(sess *Session, sink contract.Sink, cmd domain.Command) bool {
	switch c := cmd.(type) {
	case domain.LoginCommand:
		r.handleLogin(sess, sink, c)
	case domain.JoinCommand:
		r.handleJoin(sess, sink, c)
	case domain.UsersCommand:
		r.handleUsers(sess, sink)
	case domain.ChatCommand:
		r.handleChat(sess, sink, c)
	case domain.LeaveCommand:
		r.handleLeave(sess, sink)
		return true
	default:
		r.reply(sink, messages.Get("handler.error.not_implemented"))
	}
	return false
}

func (r *Router) handleLogin(sess *Session, sink contract.Sink, cmd domain.LoginCommand) {
	if sess.Authenticated() {
		r.reply(sink, messages.Get("login.error.already_auth"))
		return
	}

	result, err := r.auth.Authenticate(cmd.Name, cmd.Password)
	if err != nil {
		r.log.Error("authentication failed", "user", cmd.Name, "error", err)
		r.reply(sink, messages.Get("login.error.unexpected"))
		return
	}

	switch result {
	case services.IncorrectPassword:
		r.reply(sink, messages.Get("login.error.incorrect_password"))
	case services.AlreadyAuthenticated:
		r.reply(sink, messages.Get("login.error.another_auth"))
	case services.Authenticated:
		sess.Username = cmd.Name
		r.reply(sink, messages.Get("login.success"))
	default:
		r.reply(sink, messages.Get("login.error.unexpected"))
	}
}

func (r *Router) handleJoin(sess *Session, sink contract.Sink, cmd domain.JoinCommand) {
	if !sess.Authenticated() {
		r.reply(sink, messages.Get("join.error.anonymous"))
		return
	}
	if sess.Room == cmd.Room {
		r.reply(sink, messages.Get("join.error.already_joined"))
		return
	}

	// Switching rooms: leave the old one first, best effort.
	if sess.InRoom() {
		if old, ok := r.rooms.Get(sess.Room); ok {
			if _, err := old.Leave(sink, sess.Username); err != nil {
				r.log.Error("leave on room switch failed", "room", sess.Room, "error", err)
			}
		}
	}

	room, err := r.rooms.GetOrCreate(cmd.Room)
	if err != nil {
		r.log.Error("room creation failed", "room", cmd.Room, "error", err)
		r.reply(sink, messages.Get("handler.error.not_implemented"))
		return
	}

	joined, err := room.Join(sink, sess.Username)
	if err != nil {
		r.log.Error("join failed", "room", cmd.Room, "user", sess.Username, "error", err)
		r.reply(sink, messages.Get("handler.error.not_implemented"))
		return
	}
	if !joined {
		r.reply(sink, messages.Get("join.error.user_limit"))
		return
	}

	sess.Room = cmd.Room
	r.reply(sink, messages.Get("join.success"))
}

func (r *Router) handleUsers(sess *Session, sink contract.Sink) {
	if sess.InRoom() {
		if room, ok := r.rooms.Get(sess.Room); ok {
			r.reply(sink, messages.Format("users.online", strings.Join(room.Users(), ", ")))
			return
		}
	}
	r.reply(sink, messages.Get("users.error.no_channel"))
}

func (r *Router) handleChat(sess *Session, sink contract.Sink, cmd domain.ChatCommand) {
	if !sess.Authenticated() {
		r.reply(sink, messages.Get("chat.error.anonymous"))
		return
	}
	if !sess.InRoom() {
		r.reply(sink, messages.Get("chat.error.no_channel"))
		return
	}

	room, ok := r.rooms.Get(sess.Room)
	if !ok {
		r.reply(sink, messages.Get("chat.error.no_channel"))
		return
	}

	text := cmd.Text
	if r.moderator != nil {
		text = r.moderator.Censor(text)
	}
	if err := room.Post(sess.Username, text); err != nil {
		r.log.Error("post failed", "room", sess.Room, "user", sess.Username, "error", err)
	}
}

// handleLeave logs the user out and releases their room membership. The
// caller closes the connection afterwards, whatever state it was in.
func (r *Router) handleLeave(sess *Session, sink contract.Sink) {
	if sess.Authenticated() {
		if sess.InRoom() {
			if room, ok := r.rooms.Get(sess.Room); ok {
				if _, err := room.Leave(sink, sess.Username); err != nil {
					r.log.Error("leave failed", "room", sess.Room, "error", err)
				}
			}
		}
		if _, err := r.auth.Logout(sess.Username); err != nil {
			r.log.Error("logout failed", "user", sess.Username, "error", err)
		}
	}
	r.reply(sink, messages.Get("logout.success"))
}

func (r *Router) reply(sink contract.Sink, line string) {
	if err := sink.WriteLine(line); err != nil {
		r.log.Warn("reply write failed", "error", err)
	}
}
