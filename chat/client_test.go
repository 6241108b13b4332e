package chat

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	. "parrot/common"
	"parrot/config"
	"parrot/emoji"
	"parrot/fixtures"
	"parrot/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// fakeGateway plays the server side of the websocket: it records the
// token presented during the handshake and forwards canned events.
type fakeGateway struct {
	events chan Event
	tokens chan string
}

func (g *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.tokens <- r.Header.Get("Sec-WebSocket-Protocol")

	ws, err := testUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	for event := range g.events {
		if err := ws.WriteJSON(event); err != nil {
			return
		}
	}

	// Hold the connection open until the client hangs up.
	for {
		if _, _, err := ws.NextReader(); err != nil {
			return
		}
	}
}

func newTestIndex(t *testing.T) *emoji.Index {
	t.Helper()
	assets := t.TempDir()
	require.NoError(t, fixtures.WriteAssetDir(assets, fixtures.StockNames()))
	ix, err := emoji.NewIndex(assets)
	require.NoError(t, err)
	return ix
}

func getUsage(t *testing.T, emojiText string, kind int) (Usage, error) {
	t.Helper()

	db, err := storage.OpenDatabase(context.Background())
	require.NoError(t, err)
	defer storage.CloseDatabase(db)

	return storage.NewTransaction(db).GetUsage(emojiText, kind)
}

func TestGatewayFlow(t *testing.T) {
	DataFolder = t.TempDir()
	storage.ProfilesFolder = t.TempDir()

	ix := newTestIndex(t)

	ctx, cancel := context.WithCancel(context.Background())
	dbWait := storage.StartDatabase(ctx)

	gateway := &fakeGateway{
		events: make(chan Event, 16),
		tokens: make(chan string, 1),
	}
	srv := httptest.NewServer(gateway)

	cfg := &config.Config{}
	cfg.Gateway.URL = "ws" + strings.TrimPrefix(srv.URL, "http")
	cfg.Gateway.Token = "hunter2"
	cfg.Channels.Ignored = []Snowflake{777}

	gwWait := StartGateway(ctx, cfg, ix)

	t.Cleanup(func() {
		close(gateway.events)
		cancel()
		gwWait.Wait()
		dbWait.Wait()
		srv.Close()
	})

	require.Equal(t, "hunter2", <-gateway.tokens)

	rng := rand.New(rand.NewSource(11))
	you := fixtures.FakeMember(rng)
	alice := fixtures.FakeMember(rng)
	bob := fixtures.FakeMember(rng)

	profileExists := func(id Snowflake) func() bool {
		return func() bool {
			_, err := storage.GetProfile(id)
			return err == nil
		}
	}

	gateway.events <- Event{Type: EventTypeHello, Seq: "1", Data: HelloEvent{Session: "s-1", You: you}}
	gateway.events <- Event{Type: EventTypeMemberChunk, Seq: "2", Data: MemberChunkEvent{
		Members: []Member{alice, bob},
	}}

	require.Eventually(t, profileExists(alice.ID), 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, profileExists(bob.ID), 5*time.Second, 10*time.Millisecond)

	// A counted message, a message in an ignored channel, an event type
	// this client does not know and a payload that does not decode. Only
	// the first may touch the counters, none may wedge the connection.
	gateway.events <- Event{Type: EventTypeMessageAdd, Data: MessageAddEvent{
		Message: Message{ID: 9001, ChannelID: 100, AuthorID: alice.ID, Content: "gg \U0001F600\U0001F600 <:pog:42>"},
		Author:  alice,
	}}
	gateway.events <- Event{Type: EventTypeMessageAdd, Data: MessageAddEvent{
		Message: Message{ID: 9002, ChannelID: 777, AuthorID: bob.ID, Content: "\U0001F44D"},
		Author:  bob,
	}}
	gateway.events <- Event{Type: 99, Data: struct{}{}}
	gateway.events <- Event{Type: EventTypeMessageAdd, Data: "garbage"}

	// Events arrive in order, so once the joiner shows up on disk all
	// the messages above went through the scanner.
	joiner := fixtures.FakeMember(rng)
	gateway.events <- Event{Type: EventTypeUserAdd, Data: UserAddEvent{User: joiner}}
	require.Eventually(t, profileExists(joiner.ID), 5*time.Second, 10*time.Millisecond)

	grin, err := getUsage(t, "\U0001F600", emoji.TokenUnicode)
	require.NoError(t, err)
	require.Equal(t, 2, grin.Count)

	pog, err := getUsage(t, "<:pog:42>", emoji.TokenCustom)
	require.NoError(t, err)
	require.Equal(t, 1, pog.Count)

	_, err = getUsage(t, "\U0001F44D", emoji.TokenUnicode)
	require.Error(t, err)

	// Edits are scanned again.
	gateway.events <- Event{Type: EventTypeMessageUpdate, Data: MessageUpdateEvent{
		Message: Message{ID: 9001, ChannelID: 100, AuthorID: alice.ID, Content: "gg \U0001F600"},
	}}
	require.Eventually(t, func() bool {
		grin, err := getUsage(t, "\U0001F600", emoji.TokenUnicode)
		return err == nil && grin.Count == 3
	}, 5*time.Second, 10*time.Millisecond)

	renamed := alice
	renamed.Nick = "Birdwatcher"
	gateway.events <- Event{Type: EventTypeUserUpdate, Data: UserUpdateEvent{User: renamed}}
	require.Eventually(t, func() bool {
		member, err := storage.GetProfile(alice.ID)
		return err == nil && member.Nick == "Birdwatcher"
	}, 5*time.Second, 10*time.Millisecond)

	gateway.events <- Event{Type: EventTypeUserDelete, Data: UserDeleteEvent{UserID: bob.ID}}
	require.Eventually(t, func() bool {
		return !profileExists(bob.ID)()
	}, 5*time.Second, 10*time.Millisecond)
}

func TestGatewayReconnects(t *testing.T) {
	ix := newTestIndex(t)

	var dials atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dials.Add(1)
		ws, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws.Close()
	}))

	ctx, cancel := context.WithCancel(context.Background())

	cfg := &config.Config{}
	cfg.Gateway.URL = "ws" + strings.TrimPrefix(srv.URL, "http")
	cfg.Gateway.Token = "hunter2"

	gwWait := StartGateway(ctx, cfg, ix)

	t.Cleanup(func() {
		cancel()
		gwWait.Wait()
		srv.Close()
	})

	require.Eventually(t, func() bool {
		return dials.Load() >= 2
	}, 10*time.Second, 50*time.Millisecond)
}

func TestGatewayDisabled(t *testing.T) {
	cfg := &config.Config{}

	gwWait := StartGateway(context.Background(), cfg, nil)
	gwWait.Wait()
}
