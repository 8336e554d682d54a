package models

import "time"

const (
	ARGOT_BACKGROUND = "background"
	ARGOT_STAMP      = "stamp"
)

// Argot is hidden content bound to a sent message until it expires.
type Argot struct {
	Name      string    `json:"name" msgpack:"name"`
	Command   string    `json:"command" msgpack:"command"`
	ChatID    int64     `json:"chat_id" msgpack:"chat_id"`
	MessageID int       `json:"message_id" msgpack:"message_id"`
	Content   string    `json:"content" msgpack:"content"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
	ExpiredAt time.Time `json:"expired_at" msgpack:"expired_at"`
}
