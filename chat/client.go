package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	. "parrot/common"
	"parrot/config"
	"parrot/emoji"
	"parrot/metrics"
)

var gwLog = NewLogger("gateway")

const (
	handshakeTimeout = 10 * time.Second
	reconnectBase    = time.Second
	reconnectMax     = time.Minute
)

type Client struct {
	ws  *websocket.Conn
	ctx context.Context

	index   *emoji.Index
	ignored map[Snowflake]bool

	session string
}

// StartGateway keeps one connection to the chat gateway alive and
// feeds every event through the handlers. The bot only ever reads from
// the gateway, it never posts.
func StartGateway(ctx context.Context, cfg *config.Config, ix *emoji.Index) *sync.WaitGroup {
	var gwWait sync.WaitGroup

	if cfg.Gateway.URL == "" {
		gwLog.Warn("No gateway configured, running without chat events")
		return &gwWait
	}

	ignored := make(map[Snowflake]bool)
	for _, id := range cfg.Channels.Ignored {
		ignored[id] = true
	}

	gwLog.Println("Starting")
	gwWait.Add(1)

	go func() {
		defer gwWait.Done()

		backoff := reconnectBase
		for ctx.Err() == nil {
			started := time.Now()
			err := runConnection(ctx, cfg, ix, ignored)
			if ctx.Err() != nil {
				break
			}

			// A connection that held for a while earns a fresh start.
			if time.Since(started) > reconnectMax {
				backoff = reconnectBase
			}

			metrics.GatewayReconnects.Inc()
			gwLog.WithError(err).Warnf("Gateway connection lost, retrying in %s", backoff)

			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}

			backoff *= 2
			if backoff > reconnectMax {
				backoff = reconnectMax
			}
		}

		gwLog.Println("Finished")
	}()

	return &gwWait
}

func runConnection(ctx context.Context, cfg *config.Config, ix *emoji.Index, ignored map[Snowflake]bool) error {
	// The token rides in the subprotocol during the handshake, the
	// same place the server side reads it from.
	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
		Subprotocols:     []string{cfg.Gateway.Token},
	}

	ws, _, err := dialer.DialContext(ctx, cfg.Gateway.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial gateway: %v", err)
	}

	c := &Client{
		ws:      ws,
		ctx:     ctx,
		index:   ix,
		ignored: ignored,
	}

	return c.Run()
}

func (c *Client) Run() error {
	defer c.ws.Close()

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-c.ctx.Done():
			c.Close()
		case <-done:
		}
	}()

	for c.ctx.Err() == nil {
		event, err := c.Read()
		if err != nil {
			return err
		}

		c.Dispatch(event)
	}

	return nil
}

func (c *Client) Read() (*UnknownEvent, error) {
	_, reader, err := c.ws.NextReader()
	if err != nil {
		return nil, fmt.Errorf("failed to get reader: %v", err)
	}

	decoder := json.NewDecoder(reader)
	var event UnknownEvent
	err = decoder.Decode(&event)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %v", err)
	}

	return &event, nil
}

func (c *Client) Close() error {
	err := c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second*5),
	)

	if err != nil {
		c.ws.Close()
		return fmt.Errorf("failed to close connection: %v", err)
	}

	if err := c.ws.SetReadDeadline(time.Now().Add(time.Second * 5)); err != nil {
		c.ws.Close()
		return fmt.Errorf("failed to set read deadline: %v", err)
	}

	return nil
}
