package testutil

import (
	"encoding/json"
	"fmt"

	netclient "github.com/gamenight/schnapsen-client/internal/network/client"
	"github.com/gamenight/schnapsen-client/internal/protocol"
)

// SentCommand records one outbound command captured by the fake.
type SentCommand struct {
	Cmd     protocol.CommandType
	Payload any
	WithAck bool
}

// FakeConn is a scripted in-memory connection for projector tests. Push
// delivers inbound events synchronously, mirroring the serial delivery of
// the real transport; outbound commands are recorded for assertions.
type FakeConn struct {
	handlers map[protocol.EventType][]netclient.Handler

	Sent   []SentCommand
	Closed bool

	// SendErr, when set, is returned by Emit/EmitWithAck to simulate a
	// transport failure.
	SendErr error

	// AckErr is handed to the ack callback of EmitWithAck.
	AckErr error
}

// NewFakeConn creates an empty fake connection.
func NewFakeConn() *FakeConn {
	return &FakeConn{handlers: make(map[protocol.EventType][]netclient.Handler)}
}

func (f *FakeConn) On(event protocol.EventType, handler netclient.Handler) {
	f.handlers[event] = append(f.handlers[event], handler)
}

func (f *FakeConn) Emit(cmd protocol.CommandType, payload any) error {
	if f.SendErr != nil {
		return f.SendErr
	}
	f.Sent = append(f.Sent, SentCommand{Cmd: cmd, Payload: payload})
	return nil
}

func (f *FakeConn) EmitWithAck(cmd protocol.CommandType, payload any, ack func(error)) error {
	if f.SendErr != nil {
		return f.SendErr
	}
	f.Sent = append(f.Sent, SentCommand{Cmd: cmd, Payload: payload, WithAck: true})
	if ack != nil {
		ack(f.AckErr)
	}
	return nil
}

func (f *FakeConn) Close() {
	f.Closed = true
}

// Push delivers one inbound event to every subscribed handler, payload
// marshalled the way the server would send it. Panics on a payload that
// cannot marshal; test inputs are static.
func (f *FakeConn) Push(event protocol.EventType, payload any) {
	var data json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			panic(fmt.Sprintf("testutil: marshal %s payload: %v", event, err))
		}
		data = encoded
	}
	f.PushRaw(event, data)
}

// PushRaw delivers one inbound event with a raw data payload, for
// malformed-input tests.
func (f *FakeConn) PushRaw(event protocol.EventType, data json.RawMessage) {
	msg := &protocol.Message{Event: string(event), Data: data}
	for _, handler := range f.handlers[event] {
		handler(msg)
	}
}
