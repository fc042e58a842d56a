// Package messages holds every user-facing protocol string, keyed the way
// a resource bundle would be so the catalog can later be localized.
package messages

import "fmt"

var catalog = map[string]string{
	"welcome":                        "Welcome to the chat. Sign in with /login <name> <password>.\r\n",
	"login.success":                  "You have been authenticated.\r\n",
	"login.error.already_auth":       "Error: you are already authenticated on this connection.\r\n",
	"login.error.incorrect_password": "Error: incorrect password.\r\n",
	"login.error.another_auth":       "Error: this user is already connected from elsewhere.\r\n",
	"login.error.unexpected":         "Error: authentication failed unexpectedly.\r\n",
	"logout.success":                 "Bye.\r\n",
	"join.success":                   "You have joined the channel.\r\n",
	"join.error.anonymous":           "Error: sign in with /login before joining a channel.\r\n",
	"join.error.already_joined":      "Error: you are already in this channel.\r\n",
	"join.error.user_limit":          "Error: the channel is full.\r\n",
	"users.online":                   "Online: %s\r\n",
	"users.error.no_channel":         "Error: you are not in a channel.\r\n",
	"chat.error.anonymous":           "Error: sign in with /login before chatting.\r\n",
	"chat.error.no_channel":          "Error: join a channel with /join before chatting.\r\n",
	"handler.error.not_implemented":  "Error: command not implemented.\r\n",
}

// Get returns the catalog entry for key. A missing key is a programming
// error; the raw key is returned so the defect is visible on the wire.
func Get(key string) string {
	if line, ok := catalog[key]; ok {
		return line
	}
	return key + "\r\n"
}

// Format renders a parameterized catalog entry.
func Format(key string, args ...any) string {
	return fmt.Sprintf(Get(key), args...)
}
