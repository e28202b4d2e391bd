package protocol

import "encoding/json"

// Message is the wire frame exchanged with the game server. Inbound frames
// carry an event name, outbound frames a command name; both use the same
// shape. AckID correlates a command with the server's acknowledgement frame
// and is zero for fire-and-forget sends.
type Message struct {
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
	AckID     uint64          `json:"ack_id,omitempty"`
}

// EventType names a server → client event.
type EventType string

const (
	// Turn flow
	EventActive               EventType = "active"
	EventInactive             EventType = "inactive"
	EventAllowDrawCard        EventType = "allow_draw_card"
	EventAllowPlayCard        EventType = "allow_play_card"
	EventAllowAnnounce        EventType = "allow_announce"
	EventFinishedDistribution EventType = "finished_distribution"

	// Own hand
	EventCardAvailable   EventType = "card_available"
	EventCardUnavailable EventType = "card_unavailable"
	EventCardPlayable    EventType = "card_playable"
	EventCardNotPlayable EventType = "card_not_playable"

	// Table
	EventReceiveCard   EventType = "receive_card"
	EventPlayCard      EventType = "play_card"
	EventTrick         EventType = "trick"
	EventDeckCardCount EventType = "deck_card_count"
	EventCloseTalon    EventType = "close_talon"

	// Trump
	EventTrumpChange           EventType = "trump_change"
	EventTrumpChangePossible   EventType = "trump_change_possible"
	EventTrumpChangeImpossible EventType = "trump_change_impossible"

	// Announcements
	EventCanAnnounce    EventType = "can_announce"
	EventCannotAnnounce EventType = "cannot_announce"
	EventAnnounce       EventType = "announce"

	// Results
	EventScore       EventType = "score"
	EventResult      EventType = "result"
	EventFinalResult EventType = "final_result"
	EventTimeout     EventType = "timeout"

	// Acknowledgement of a command sent with an ack id
	EventAck EventType = "ack"
)

// CommandType names a client → server command.
type CommandType string

const (
	CmdPlayCard   CommandType = "play_card"
	CmdSwapTrump  CommandType = "swap_trump"
	CmdCloseTalon CommandType = "close_talon"
	CmdAnnounce20 CommandType = "announce_20"
	CmdAnnounce40 CommandType = "announce_40"
	CmdDrawCard   CommandType = "draw_card"
	CmdCutDeck    CommandType = "cutt_deck" // server-side spelling
	CmdTakeCards  CommandType = "take_cards"
)

// NewMessage builds an outbound frame, marshalling payload into Data.
// A nil payload produces a frame with no data field.
func NewMessage(name CommandType, payload any) (*Message, error) {
	msg := &Message{Event: string(name)}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Data = data
	}
	return msg, nil
}

// MustNewMessage is NewMessage for payloads that cannot fail to marshal.
func MustNewMessage(name CommandType, payload any) *Message {
	msg, err := NewMessage(name, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Encode serializes the frame for the wire.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode parses a wire frame.
func Decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
