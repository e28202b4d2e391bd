package protocol

import "github.com/gamenight/schnapsen-client/internal/game/card"

// AnnounceKind is the declared combination type.
type AnnounceKind string

const (
	AnnounceTwenty AnnounceKind = "Twenty"
	AnnounceForty  AnnounceKind = "Forty"
)

// --- Server → client payloads ---

// UserPayload carries only the subject of a per-player event
// (active, inactive, receive_card, close_talon).
type UserPayload struct {
	UserID string `json:"user_id"`
}

// PlayCardPayload announces a card placed on the current trick.
// Announcement is never set by the server; the client attaches the pending
// announcement of the playing user before re-emitting (see client package).
type PlayCardPayload struct {
	UserID       string        `json:"user_id"`
	Card         card.Card     `json:"card"`
	Announcement *Announcement `json:"announcement,omitempty"`
}

// TrickPayload reports a completed trick won by UserID.
type TrickPayload struct {
	UserID string       `json:"user_id"`
	Cards  [2]card.Card `json:"cards"`
}

// ScorePayload reports a player's cumulative points.
type ScorePayload struct {
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}

// Announcement is a declared Twenty/Forty combination.
type Announcement struct {
	Cards [2]card.Card `json:"cards"`
	Kind  AnnounceKind `json:"announce_type"`
}

// AnnouncePayload reports a player's declared announcement.
type AnnouncePayload struct {
	UserID       string       `json:"user_id"`
	Announcement Announcement `json:"announcement"`
}

// AnnounceOffer is a combination the local player may currently declare
// (can_announce / cannot_announce).
type AnnounceOffer struct {
	Cards [2]card.Card `json:"cards"`
	Kind  AnnounceKind `json:"announce_type"`
}

// RoundResultPayload closes a round.
type RoundResultPayload struct {
	Winner string         `json:"winner"`
	Ranked map[string]int `json:"ranked"`
	Points int            `json:"points"`
}

// FinalResultPayload closes the match.
type FinalResultPayload struct {
	Winner string         `json:"winner"`
	Ranked map[string]int `json:"ranked"`
}

// TimeoutPayload reports a server-declared turn timeout.
type TimeoutPayload struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// --- Client → server payloads ---

// IndexPayload carries a deck position (cutt_deck, take_cards).
type IndexPayload struct {
	Index int `json:"index"`
}

// Announce20Payload names the pair being declared. announce_40 needs no
// payload, the trump suit is implied.
type Announce20Payload struct {
	Cards []card.Card `json:"cards"`
}
