package client

import (
	"github.com/gamenight/schnapsen-client/internal/game/card"
)

// Event names the normalized events the client emits to application code.
// The raw server vocabulary is identity-agnostic ("X happened"); the
// normalized one distinguishes what happened to the local player from what
// happened to an opponent. Payload types are listed per constant.
type Event string

// General events, emitted for every player's actions.
const (
	EventActive               Event = "active"                 // protocol.UserPayload
	EventInactive             Event = "inactive"               // protocol.UserPayload
	EventPlayCard             Event = "play_card"              // protocol.PlayCardPayload
	EventEnemyPlayCard        Event = "enemy_play_card"        // protocol.PlayCardPayload
	EventEnemyReceiveCard     Event = "enemy_receive_card"     // protocol.UserPayload
	EventTrick                Event = "trick"                  // protocol.TrickPayload
	EventTrumpChange          Event = "trump_change"           // TrumpChange
	EventAnnouncement         Event = "announcement"           // protocol.AnnouncePayload
	EventScore                Event = "score"                  // protocol.ScorePayload
	EventRoundResult          Event = "round_result"           // protocol.RoundResultPayload
	EventFinalResult          Event = "final_result"           // protocol.FinalResultPayload
	EventFinishedDistribution Event = "finished_distribution"  // nil
	EventCanPlay              Event = "can_play"               // nil
	EventDeckCardCountChange  Event = "deck_card_count_change" // int
	EventCloseTalon           Event = "close_talon"            // protocol.UserPayload
	EventTimeout              Event = "timeout"                // protocol.TimeoutPayload
)

// Player events, emitted only when the subject is the local player.
const (
	EventSelfActive                Event = "self:active"                  // nil
	EventSelfInactive              Event = "self:inactive"                // nil
	EventSelfAllowDrawCard         Event = "self:allow_draw_card"         // nil
	EventSelfAllowPlayCard         Event = "self:allow_play_card"         // nil
	EventSelfAllowAnnounce         Event = "self:allow_announce"          // nil
	EventSelfCardAvailable         Event = "self:card_available"          // card.Card
	EventSelfCardUnavailable       Event = "self:card_unavailable"        // card.Card
	EventSelfCardPlayable          Event = "self:card_playable"           // card.Card
	EventSelfCardNotPlayable       Event = "self:card_not_playable"       // card.Card
	EventSelfPlayCard              Event = "self:play_card"               // protocol.PlayCardPayload
	EventSelfTrick                 Event = "self:trick"                   // [2]card.Card
	EventSelfTrumpChange           Event = "self:trump_change"            // *card.Card
	EventSelfTrumpChangePossible   Event = "self:trump_change_possible"   // card.Card
	EventSelfTrumpChangeImpossible Event = "self:trump_change_impossible" // card.Card
	EventSelfCanAnnounce           Event = "self:can_announce"            // protocol.AnnounceOffer
	EventSelfCannotAnnounce        Event = "self:cannot_announce"         // protocol.AnnounceOffer
	EventSelfAnnouncement          Event = "self:announcement"            // protocol.Announcement
	EventSelfScore                 Event = "self:score"                   // int
	EventSelfWonRound              Event = "self:won_round"               // int (points)
	EventSelfLostRound             Event = "self:lost_round"              // int (points)
	EventSelfResultMatch           Event = "self:result_match"            // int (rank)
	EventSelfWonMatch              Event = "self:won_match"               // int (rank)
	EventSelfLostMatch             Event = "self:lost_match"              // int (rank)
)

// TrumpChange is the normalized trump_change payload. UserID is the player
// the change is attributed to, or "server" when the server itself set or
// cleared the trump. Card is nil when the trump was cleared.
type TrumpChange struct {
	UserID string     `json:"user_id"`
	Card   *card.Card `json:"card"`
}

// ServerActor attributes a trump change to the server rather than a player.
const ServerActor = "server"

// Handler consumes one normalized event. The payload type depends on the
// event, see the Event constants. Handlers run synchronously on the event
// pipeline: a slow handler delays the next raw event.
type Handler func(payload any)

// emitter is the synchronous callback registry behind Client.On.
type emitter struct {
	handlers map[Event][]Handler
}

func newEmitter() *emitter {
	return &emitter{handlers: make(map[Event][]Handler)}
}

func (e *emitter) on(event Event, handler Handler) {
	e.handlers[event] = append(e.handlers[event], handler)
}

func (e *emitter) emit(event Event, payload any) {
	for _, handler := range e.handlers[event] {
		handler(payload)
	}
}
