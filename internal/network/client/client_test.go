package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamenight/schnapsen-client/internal/apperrors"
	"github.com/gamenight/schnapsen-client/internal/protocol"
)

var upgrader = websocket.Upgrader{}

// testServer is a minimal game server double: it hands every accepted
// connection to serve and cleans up on test exit.
func testServer(t *testing.T, serve func(conn *websocket.Conn)) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		serve(conn)
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// connect dials without starting delivery; tests register handlers and
// then call Start themselves.
func connect(t *testing.T, url string) *Client {
	t.Helper()
	c := NewClient(url)
	require.NoError(t, c.Connect())
	t.Cleanup(c.Close)
	return c
}

func TestDispatchByEventName(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		msg := protocol.MustNewMessage(protocol.CommandType(protocol.EventActive), map[string]string{"user_id": "u1"})
		data, _ := msg.Encode()
		_ = conn.WriteMessage(websocket.TextMessage, data)
		time.Sleep(time.Second)
	})

	c := connect(t, url)

	got := make(chan *protocol.Message, 1)
	any := make(chan string, 1)
	c.OnAny(func(msg *protocol.Message) {
		any <- msg.Event
	})
	c.On(protocol.EventActive, func(msg *protocol.Message) {
		got <- msg
	})
	c.On(protocol.EventInactive, func(msg *protocol.Message) {
		t.Error("handler for a different event must not fire")
	})
	c.Start()

	select {
	case msg := <-got:
		assert.Equal(t, string(protocol.EventActive), msg.Event)
		assert.JSONEq(t, `{"user_id":"u1"}`, string(msg.Data))
	case <-time.After(5 * time.Second):
		t.Fatal("event was not dispatched")
	}
	select {
	case event := <-any:
		assert.Equal(t, string(protocol.EventActive), event)
	case <-time.After(5 * time.Second):
		t.Fatal("catch-all handler was not invoked")
	}
}

func TestNoFrameLostBeforeStart(t *testing.T) {
	// The server deals immediately after the handshake, the way a game
	// server pushes the opening hand. A handler registered any time
	// before Start must still see the frame.
	url := testServer(t, func(conn *websocket.Conn) {
		msg := protocol.MustNewMessage(protocol.CommandType(protocol.EventCardAvailable),
			map[string]string{"suit": "Hearts", "value": "Ten"})
		data, _ := msg.Encode()
		_ = conn.WriteMessage(websocket.TextMessage, data)
		time.Sleep(time.Second)
	})

	c := connect(t, url)

	// Let the frame arrive at the socket before anyone is wired up.
	time.Sleep(100 * time.Millisecond)

	got := make(chan *protocol.Message, 1)
	c.On(protocol.EventCardAvailable, func(msg *protocol.Message) {
		got <- msg
	})
	c.Start()

	select {
	case msg := <-got:
		assert.JSONEq(t, `{"suit":"Hearts","value":"Ten"}`, string(msg.Data))
	case <-time.After(5 * time.Second):
		t.Fatal("frame sent before Start was lost")
	}
}

func TestMalformedFrameIsSkipped(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{not json`))
		msg := protocol.MustNewMessage(protocol.CommandType(protocol.EventScore), map[string]any{"user_id": "u1", "score": 3})
		data, _ := msg.Encode()
		_ = conn.WriteMessage(websocket.TextMessage, data)
		time.Sleep(time.Second)
	})

	c := connect(t, url)

	got := make(chan struct{}, 1)
	c.On(protocol.EventScore, func(*protocol.Message) {
		got <- struct{}{}
	})
	c.Start()

	select {
	case <-got:
		// The bad frame was skipped, the next one still arrived.
	case <-time.After(5 * time.Second):
		t.Fatal("frame after a malformed one was not dispatched")
	}
}

func TestEmit(t *testing.T) {
	received := make(chan *protocol.Message, 1)
	url := testServer(t, func(conn *websocket.Conn) {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			return
		}
		received <- msg
	})

	c := connect(t, url)
	c.Start()
	require.NoError(t, c.Emit(protocol.CmdCloseTalon, nil))

	select {
	case msg := <-received:
		assert.Equal(t, string(protocol.CmdCloseTalon), msg.Event)
		assert.Zero(t, msg.AckID)
	case <-time.After(5 * time.Second):
		t.Fatal("command never reached the server")
	}
}

func TestEmitWithAckRoundTrip(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			return
		}

		ack := protocol.MustNewMessage(protocol.CommandType(protocol.EventAck), map[string]uint64{"ack_id": msg.AckID})
		out, _ := ack.Encode()
		_ = conn.WriteMessage(websocket.TextMessage, out)
		time.Sleep(time.Second)
	})

	c := connect(t, url)
	c.Start()

	acked := make(chan error, 1)
	require.NoError(t, c.EmitWithAck(protocol.CmdDrawCard, nil, func(err error) {
		acked <- err
	}))

	select {
	case err := <-acked:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ack never resolved")
	}
}

func TestEmitWithAckServerError(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			return
		}

		payload, _ := json.Marshal(map[string]any{"ack_id": msg.AckID, "error": "not your turn"})
		out, _ := (&protocol.Message{Event: string(protocol.EventAck), Data: payload}).Encode()
		_ = conn.WriteMessage(websocket.TextMessage, out)
		time.Sleep(time.Second)
	})

	c := connect(t, url)
	c.Start()

	acked := make(chan error, 1)
	require.NoError(t, c.EmitWithAck(protocol.CmdAnnounce40, nil, func(err error) {
		acked <- err
	}))

	select {
	case err := <-acked:
		var ackErr *AckError
		require.ErrorAs(t, err, &ackErr)
		assert.Equal(t, "not your turn", ackErr.Message)
	case <-time.After(5 * time.Second):
		t.Fatal("ack never resolved")
	}
}

func TestEmitAfterClose(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		_, _, _ = conn.ReadMessage()
	})

	c := connect(t, url)
	c.Start()
	c.Close()

	err := c.Emit(protocol.CmdDrawCard, nil)
	assert.ErrorIs(t, err, apperrors.ErrConnClosed)
	assert.False(t, c.IsConnected())
}

func TestCloseResolvesPendingAcks(t *testing.T) {
	// The server swallows the command and never acknowledges.
	url := testServer(t, func(conn *websocket.Conn) {
		_, _, _ = conn.ReadMessage()
		time.Sleep(time.Second)
	})

	c := connect(t, url)
	c.Start()

	acked := make(chan error, 1)
	require.NoError(t, c.EmitWithAck(protocol.CmdTakeCards, nil, func(err error) {
		acked <- err
	}))

	c.Close()

	select {
	case err := <-acked:
		assert.ErrorIs(t, err, apperrors.ErrConnClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("pending ack was not resolved on close")
	}

	// A send after teardown never registers a dangling callback.
	err := c.EmitWithAck(protocol.CmdTakeCards, nil, func(error) {
		t.Error("callback must not fire for a refused send")
	})
	assert.ErrorIs(t, err, apperrors.ErrConnClosed)
}

func TestOnCloseCallback(t *testing.T) {
	url := testServer(t, func(conn *websocket.Conn) {
		// Drop the connection immediately.
	})

	c := NewClient(url)
	closed := make(chan struct{})
	c.OnClose = func() { close(closed) }
	require.NoError(t, c.Connect())
	t.Cleanup(c.Close)
	c.Start()

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("OnClose was not invoked after the server dropped the connection")
	}
}
