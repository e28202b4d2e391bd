package client

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gamenight/schnapsen-client/internal/logger"
	"github.com/gamenight/schnapsen-client/internal/protocol"
)

// readPump reads frames from the server and dispatches them one at a
// time. Handlers run to completion before the next frame is read, so the
// projector never sees overlapping mutations.
func (c *Client) readPump() {
	defer c.handleReadExit()

	c.setupPongHandler()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}

		msg, err := protocol.Decode(message)
		if err != nil {
			logger.LogError("frame decode failed: %v", err)
			continue
		}

		c.dispatch(msg)
	}
}

func (c *Client) handleReadExit() {
	if r := recover(); r != nil {
		logger.LogPanic(r)
	}
	c.Close()
	if c.OnClose != nil {
		c.OnClose()
	}
}

func (c *Client) setupPongHandler() {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
}

func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
		if c.OnError != nil {
			c.OnError(err)
		}
	}
}

func (c *Client) dispatch(msg *protocol.Message) {
	logger.LogEvent("recv", msg.Event, msg.Data)

	if protocol.EventType(msg.Event) == protocol.EventAck {
		c.resolveAck(msg)
		return
	}

	if c.anyHandler != nil {
		c.anyHandler(msg)
	}
	for _, handler := range c.handlers[protocol.EventType(msg.Event)] {
		handler(msg)
	}
}

// ackPayload is the data shape of an ack frame.
type ackPayload struct {
	AckID uint64 `json:"ack_id"`
	Error string `json:"error,omitempty"`
}

func (c *Client) resolveAck(msg *protocol.Message) {
	var payload ackPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		logger.LogError("malformed ack frame: %v", err)
		return
	}

	c.mu.Lock()
	ack := c.pendingAcks[payload.AckID]
	delete(c.pendingAcks, payload.AckID)
	c.mu.Unlock()

	if ack == nil {
		return
	}
	if payload.Error != "" {
		ack(&AckError{Message: payload.Error})
		return
	}
	ack(nil)
}

// AckError is a server-side rejection carried on an ack frame.
type AckError struct {
	Message string
}

func (e *AckError) Error() string {
	return e.Message
}

// writePump drains the send buffer and keeps the connection alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
