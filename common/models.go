package common

import (
	"time"

	"parrot/common/snowflake"
)

type Snowflake = snowflake.Snowflake

const SnowflakeNone Snowflake = 0

const (
	ErrorCodeInternalError   = iota
	ErrorCodeInvalidRequest  = iota
	ErrorCodeIo              = iota
	ErrorCodeMissingJoinDate = iota
	ErrorCodeMissingNewline  = iota
)

// Member is the profile mirrored to disk for every user the gateway
// tells us about. Field order matches the serialized key order.
type Member struct {
	Bot           bool        `json:"bot"`
	Discriminator int         `json:"discriminator"`
	Joined        time.Time   `json:"joined"`
	Nick          string      `json:"nick,omitempty"`
	Roles         []Snowflake `json:"roles"`
	ID            Snowflake   `json:"snowflake"`
	Username      string      `json:"username"`
}

func (m Member) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.Username
}

const (
	MessageTypeDefault = iota
)

type Message struct {
	ID        Snowflake `json:"id"`
	Type      int       `json:"type"`
	ChannelID Snowflake `json:"channel"`
	Timestamp int       `json:"timestamp"`
	AuthorID  Snowflake `json:"author"`
	Content   string    `json:"content"`
}

// Usage is one row of the emoji usage counters. Timestamps are Unix
// milliseconds.
type Usage struct {
	Emoji     string `json:"emoji"`
	Kind      int    `json:"kind"`
	Count     int    `json:"count"`
	FirstSeen int    `json:"firstSeen"`
	LastSeen  int    `json:"lastSeen"`
}
