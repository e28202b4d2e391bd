package client

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gamenight/schnapsen-client/internal/apperrors"
	"github.com/gamenight/schnapsen-client/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBufferSize = 256
)

// Handler consumes the raw data payload of one inbound event.
type Handler func(msg *protocol.Message)

// Client is the WebSocket connection to one game server. It exposes the
// duplex surface the projector consumes: subscribe-by-name event fan-out
// and send-by-name command sink. Events are dispatched synchronously on
// the read loop, one frame at a time.
type Client struct {
	ServerURL string
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}

	// Callbacks
	OnError func(error) // read error callback
	OnClose func()      // connection teardown callback

	handlers   map[protocol.EventType][]Handler
	anyHandler func(*protocol.Message)

	ackID       atomic.Uint64
	pendingAcks map[uint64]func(error)

	mu     sync.RWMutex
	closed bool
}

// NewClient creates a client for serverURL. Connect must be called before
// any Emit.
func NewClient(serverURL string) *Client {
	return &Client{
		ServerURL:   serverURL,
		send:        make(chan []byte, sendBufferSize),
		done:        make(chan struct{}),
		handlers:    make(map[protocol.EventType][]Handler),
		pendingAcks: make(map[uint64]func(error)),
	}
}

// Connect dials the server. No frame is delivered until Start is
// called; frames the server sends in between wait in the connection
// buffer, so handlers registered before Start cannot miss anything.
func (c *Client) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.Dial(c.ServerURL, nil)
	if err != nil {
		return err
	}

	c.conn = conn
	return nil
}

// Start begins frame delivery and flushes queued sends. Call it exactly
// once, after every handler is registered.
func (c *Client) Start() {
	go c.readPump()
	go c.writePump()
}

// On registers a handler for one inbound event name. Handlers registered
// for the same name run in registration order. Register between Connect
// and Start; the map is not synchronized against a running read pump.
func (c *Client) On(event protocol.EventType, handler Handler) {
	c.handlers[event] = append(c.handlers[event], handler)
}

// OnAny registers a catch-all handler invoked for every inbound frame
// before the named handlers. Used for diagnostics.
func (c *Client) OnAny(handler func(*protocol.Message)) {
	c.anyHandler = handler
}

// Emit sends a fire-and-forget command.
func (c *Client) Emit(cmd protocol.CommandType, payload any) error {
	msg, err := protocol.NewMessage(cmd, payload)
	if err != nil {
		return err
	}
	return c.enqueue(msg)
}

// EmitWithAck sends a command carrying an ack id; ack is invoked once the
// server acknowledges or with the send error if the frame never left.
func (c *Client) EmitWithAck(cmd protocol.CommandType, payload any, ack func(error)) error {
	msg, err := protocol.NewMessage(cmd, payload)
	if err != nil {
		return err
	}
	msg.AckID = c.ackID.Add(1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return apperrors.ErrConnClosed
	}
	c.pendingAcks[msg.AckID] = ack
	c.mu.Unlock()

	if err := c.enqueue(msg); err != nil {
		c.mu.Lock()
		delete(c.pendingAcks, msg.AckID)
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *Client) enqueue(msg *protocol.Message) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return apperrors.ErrConnClosed
	}
	c.mu.RUnlock()

	data, err := msg.Encode()
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	default:
		return apperrors.ErrSendBufferFull
	}
}

// Close tears down the connection. No in-flight event is flushed; every
// callback still waiting on an acknowledgement is resolved with
// ErrConnClosed so no caller hangs on a dead connection.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	pending := c.pendingAcks
	c.pendingAcks = nil
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	for _, ack := range pending {
		ack(apperrors.ErrConnClosed)
	}
}

// IsConnected reports whether the connection is live.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil
}
