package chat

import (
	"encoding/json"
	. "parrot/common"
	"parrot/emoji"
	"parrot/metrics"
	"parrot/storage"
	"time"
)

// Dispatch routes one decoded gateway event to its handler. Unknown event
// types are logged and dropped so a server upgrade cannot wedge the client.
func (c *Client) Dispatch(event *UnknownEvent) {
	switch event.Type {
	case EventTypeError:
		var data ErrorEvent
		if decodeEvent(event, &data) {
			c.HandleError(data)
		}
	case EventTypeHello:
		var data HelloEvent
		if decodeEvent(event, &data) {
			c.HandleHello(data)
		}
	case EventTypeMessageAdd:
		var data MessageAddEvent
		if decodeEvent(event, &data) {
			c.HandleMessageAdd(data)
		}
	case EventTypeMessageUpdate:
		var data MessageUpdateEvent
		if decodeEvent(event, &data) {
			c.HandleMessageUpdate(data)
		}
	case EventTypeMessageDelete:
		// Usage counters are append only, nothing to unwind.
	case EventTypeUserAdd:
		var data UserAddEvent
		if decodeEvent(event, &data) {
			c.HandleUserAdd(data)
		}
	case EventTypeUserUpdate:
		var data UserUpdateEvent
		if decodeEvent(event, &data) {
			c.HandleUserUpdate(data)
		}
	case EventTypeUserDelete:
		var data UserDeleteEvent
		if decodeEvent(event, &data) {
			c.HandleUserDelete(data)
		}
	case EventTypeMemberChunk:
		var data MemberChunkEvent
		if decodeEvent(event, &data) {
			c.HandleMemberChunk(data)
		}
	default:
		gwLog.Debugf("Unhandled event type %d", event.Type)
	}
}

func decodeEvent(event *UnknownEvent, data interface{}) bool {
	if err := json.Unmarshal(event.Data, data); err != nil {
		gwLog.Warnf("Dropping malformed event type %d: %v", event.Type, err)
		return false
	}
	return true
}

func (c *Client) HandleError(data ErrorEvent) {
	gwLog.Errorf("Server error %d: %s", data.Code, data.Message)
}

func (c *Client) HandleHello(data HelloEvent) {
	c.session = data.Session
	gwLog.Infof("Connected as %s", data.You.DisplayName())
}

func (c *Client) HandleMessageAdd(data MessageAddEvent) {
	c.scanMessage(data.Message)
}

func (c *Client) HandleMessageUpdate(data MessageUpdateEvent) {
	// An emoji added by an edit was used just as much as one typed the
	// first time around.
	c.scanMessage(data.Message)
}

func (c *Client) scanMessage(msg Message) {
	if c.ignored[msg.ChannelID] {
		return
	}

	tokens := emoji.Extract(c.index.Catalog(), msg.Content)

	metrics.MessagesScanned.Inc()
	for _, token := range tokens {
		metrics.TokensFound.WithLabelValues(emoji.KindName(token.Kind)).Inc()
	}

	if len(tokens) == 0 {
		return
	}

	db, err := storage.OpenDatabase(c.ctx)
	if err != nil {
		gwLog.Errorln("Failed to open database:", err)
		return
	}
	defer storage.CloseDatabase(db)

	tx := storage.NewTransaction(db)
	tx.Start()
	err = tx.RecordUsage(tokens, time.Now())
	tx.Commit(err)

	if err != nil {
		gwLog.Errorln("Failed to record usage:", err)
		return
	}

	gwLog.Debugf("Recorded %d emoji from message %d: %s", len(tokens), msg.ID, TruncateText(msg.Content, 80, false))
}

func (c *Client) HandleUserAdd(data UserAddEvent) {
	if err := storage.AddProfile(data.User); err != nil {
		gwLog.Errorln("Failed to store profile:", err)
		return
	}
	gwLog.Infof("Member joined: %s", data.User.DisplayName())
}

func (c *Client) HandleUserUpdate(data UserUpdateEvent) {
	if err := storage.UpdateProfile(data.User); err != nil {
		gwLog.Errorln("Failed to update profile:", err)
		return
	}
	gwLog.Debugf("Member updated: %s", data.User.DisplayName())
}

func (c *Client) HandleUserDelete(data UserDeleteEvent) {
	if err := storage.RemoveProfile(data.UserID); err != nil {
		gwLog.Errorln("Failed to remove profile:", err)
		return
	}
	gwLog.Infof("Member left: %d", data.UserID)
}

func (c *Client) HandleMemberChunk(data MemberChunkEvent) {
	if err := storage.SetProfiles(data.Members); err != nil {
		gwLog.Errorln("Failed to rebuild profiles:", err)
		return
	}
	gwLog.Infof("Profile directory rebuilt with %d members", len(data.Members))
}
