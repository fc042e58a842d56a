// Package domain contains core concepts of the chat service.
// Messages are immutable once created.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const messageTimeLayout = "02.01.2006 15:04:05"

// Message represents an immutable chat event posted to a room.
type Message struct {
	ID     uuid.UUID // unique identifier
	Author string
	SentAt time.Time
	Text   string
}

func NewMessage(author, text string) Message {
	return Message{
		ID:     uuid.New(),
		Author: author,
		SentAt: time.Now(),
		Text:   text,
	}
}

// Render produces the wire form of the message, one block per message:
//
//	author (02.01.2006 15:04:05):
//	 text
func (m Message) Render() string {
	return fmt.Sprintf("%s (%s):\r\n %s\r\n", m.Author, m.SentAt.Format(messageTimeLayout), m.Text)
}
