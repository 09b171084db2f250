package domain

import (
	"fmt"
	"time"
)

type MessageType string

const (
	MessageUser   MessageType = "user"
	MessageSystem MessageType = "system"
)

// SystemAuthor is the author nickname of server generated entries.
const SystemAuthor = "System"

// TimestampLayout formats message timestamps as local HH:MM.
const TimestampLayout = "15:04"

type Message struct {
	AuthorNickname string      `json:"authorNickname"`
	Body           string      `json:"body"`
	Timestamp      string      `json:"timestamp"`
	IsActive       bool        `json:"isActive"`
	Type           MessageType `json:"type"`
}

func NewUserMessage(author, body string, now time.Time) Message {
	return Message{
		AuthorNickname: author,
		Body:           body,
		Timestamp:      now.Local().Format(TimestampLayout),
		IsActive:       true,
		Type:           MessageUser,
	}
}

func NewSystemMessage(body string, now time.Time) Message {
	return Message{
		AuthorNickname: SystemAuthor,
		Body:           body,
		Timestamp:      now.Local().Format(TimestampLayout),
		IsActive:       true,
		Type:           MessageSystem,
	}
}

func JoinedMessage(nickname string, now time.Time) Message {
	return NewSystemMessage(fmt.Sprintf("%s entered the room", nickname), now)
}

func LeftMessage(nickname string, now time.Time) Message {
	return NewSystemMessage(fmt.Sprintf("%s left the room", nickname), now)
}

func ClosedMessage(now time.Time) Message {
	return NewSystemMessage("Room was closed", now)
}
