package chat

import (
	"encoding/json"

	. "parrot/common"
)

const (
	EventTypeError = iota

	EventTypeHello = iota

	EventTypeMessageAdd    = iota
	EventTypeMessageUpdate = iota
	EventTypeMessageDelete = iota

	EventTypeUserAdd    = iota
	EventTypeUserUpdate = iota
	EventTypeUserDelete = iota

	EventTypeMemberChunk = iota
)

type UnknownEvent struct {
	Type int             `json:"type"`
	Seq  string          `json:"seq,omitempty"`
	Data json.RawMessage `json:"data"`
}

type Event struct {
	Type int         `json:"type"`
	Seq  string      `json:"seq,omitempty"`
	Data interface{} `json:"data"`
}

type ErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

type HelloEvent struct {
	Session string `json:"session"`
	You     Member `json:"you"`
}

type MessageAddEvent struct {
	Message Message `json:"message"`
	Author  Member  `json:"author"`
}

type MessageUpdateEvent struct {
	Message Message `json:"message"`
}

type MessageDeleteEvent struct {
	MessageID Snowflake `json:"message"`
}

type UserAddEvent struct {
	User Member `json:"user"`
}

type UserUpdateEvent struct {
	User Member `json:"user"`
}

type UserDeleteEvent struct {
	UserID Snowflake `json:"user"`
}

// MemberChunk carries the full roster, sent by the gateway after the
// hello so the profile directory can be rebuilt from scratch.
type MemberChunkEvent struct {
	Members []Member `json:"members"`
}
