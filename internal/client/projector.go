package client

import (
	"encoding/json"

	"github.com/gamenight/schnapsen-client/internal/game/card"
	"github.com/gamenight/schnapsen-client/internal/logger"
	netclient "github.com/gamenight/schnapsen-client/internal/network/client"
	"github.com/gamenight/schnapsen-client/internal/protocol"
)

// Conn is the duplex surface the projector consumes from the transport
// layer: subscribe-by-name inbound events and send-by-name outbound
// commands. *netclient.Client implements it; tests use a scripted fake.
type Conn interface {
	On(event protocol.EventType, handler netclient.Handler)
	Emit(cmd protocol.CommandType, payload any) error
	EmitWithAck(cmd protocol.CommandType, payload any, ack func(error)) error
	Close()
}

// Client projects the server's event stream for one match into a local
// view and re-exposes it as normalized, identity-aware events. The server
// is the sole source of truth: nothing here computes game rules, it only
// records announced outcomes.
//
// One Client models exactly one match and dies with it. Events are
// processed serially in transport order; registered handlers run
// synchronously within the processing step of the event that triggered
// them.
type Client struct {
	userID string
	roster []string
	conn   Conn

	state *state
	*emitter

	waiters *waiterList
}

// inboundEvents is the closed set of server events the translator handles.
var inboundEvents = []protocol.EventType{
	protocol.EventActive,
	protocol.EventInactive,
	protocol.EventAllowDrawCard,
	protocol.EventAllowPlayCard,
	protocol.EventAllowAnnounce,
	protocol.EventFinishedDistribution,
	protocol.EventCardAvailable,
	protocol.EventCardUnavailable,
	protocol.EventCardPlayable,
	protocol.EventCardNotPlayable,
	protocol.EventReceiveCard,
	protocol.EventPlayCard,
	protocol.EventTrick,
	protocol.EventDeckCardCount,
	protocol.EventCloseTalon,
	protocol.EventTrumpChange,
	protocol.EventTrumpChangePossible,
	protocol.EventTrumpChangeImpossible,
	protocol.EventCanAnnounce,
	protocol.EventCannotAnnounce,
	protocol.EventAnnounce,
	protocol.EventScore,
	protocol.EventResult,
	protocol.EventFinalResult,
	protocol.EventTimeout,
}

// New creates a client for the local player userID. players is the match
// roster including the local player; it may be empty, in which case
// opponents are resolved from observed event subjects.
func New(userID string, players []string, conn Conn) *Client {
	c := &Client{
		userID:  userID,
		roster:  append([]string(nil), players...),
		conn:    conn,
		state:   newState(),
		emitter: newEmitter(),
		waiters: newWaiterList(),
	}
	c.bind()
	return c
}

// UserID returns the local player id.
func (c *Client) UserID() string {
	return c.userID
}

// On registers a handler for one normalized event. Registration is not
// safe once the transport is delivering events; wire up handlers before
// play starts.
func (c *Client) On(event Event, handler Handler) {
	c.on(event, handler)
}

// Disconnect tears down the transport subscription. No in-flight event is
// flushed; the client is dead afterwards.
func (c *Client) Disconnect() {
	c.conn.Close()
}

func (c *Client) bind() {
	for _, event := range inboundEvents {
		event := event
		c.conn.On(event, func(msg *protocol.Message) {
			c.route(event, msg.Data)
		})
	}
}

// route is the single dispatch point: one closed switch over the inbound
// vocabulary, one handler per kind. Handlers never fail the session; a
// payload that does not parse is a logged no-op.
func (c *Client) route(event protocol.EventType, data json.RawMessage) {
	switch event {
	case protocol.EventActive:
		c.handleActive(data)
	case protocol.EventInactive:
		c.handleInactive(data)
	case protocol.EventAllowDrawCard:
		c.handleAllowDrawCard()
	case protocol.EventAllowPlayCard:
		c.handleAllowPlayCard()
	case protocol.EventAllowAnnounce:
		c.handleAllowAnnounce()
	case protocol.EventFinishedDistribution:
		c.handleFinishedDistribution()
	case protocol.EventCardAvailable:
		c.handleCardAvailable(data)
	case protocol.EventCardUnavailable:
		c.handleCardUnavailable(data)
	case protocol.EventCardPlayable:
		c.handleCardPlayable(data)
	case protocol.EventCardNotPlayable:
		c.handleCardNotPlayable(data)
	case protocol.EventReceiveCard:
		c.handleReceiveCard(data)
	case protocol.EventPlayCard:
		c.handlePlayCard(data)
	case protocol.EventTrick:
		c.handleTrick(data)
	case protocol.EventDeckCardCount:
		c.handleDeckCardCount(data)
	case protocol.EventCloseTalon:
		c.handleCloseTalon(data)
	case protocol.EventTrumpChange:
		c.handleTrumpChange(data)
	case protocol.EventTrumpChangePossible:
		c.handleTrumpChangePossible(data)
	case protocol.EventTrumpChangeImpossible:
		c.handleTrumpChangeImpossible(data)
	case protocol.EventCanAnnounce:
		c.handleCanAnnounce(data)
	case protocol.EventCannotAnnounce:
		c.handleCannotAnnounce(data)
	case protocol.EventAnnounce:
		c.handleAnnounce(data)
	case protocol.EventScore:
		c.handleScore(data)
	case protocol.EventResult:
		c.handleRoundResult(data)
	case protocol.EventFinalResult:
		c.handleFinalResult(data)
	case protocol.EventTimeout:
		c.handleTimeout(data)
	default:
		logger.LogError("unhandled server event %q", event)
	}

	c.waiters.notify()
}

// decode parses an event payload, treating malformed data as a diagnosed
// no-op so a bad frame can never kill the session.
func decode[T any](event protocol.EventType, data json.RawMessage, v *T) bool {
	if err := json.Unmarshal(data, v); err != nil {
		logger.LogError("malformed %s payload: %v", event, err)
		return false
	}
	return true
}

// --- Turn flow ---

func (c *Client) handleActive(data json.RawMessage) {
	var payload protocol.UserPayload
	if !decode(protocol.EventActive, data, &payload) {
		return
	}

	c.state.mu.Lock()
	c.state.noteUser(payload.UserID)
	c.state.turn = payload.UserID
	c.state.mu.Unlock()

	c.emit(EventActive, payload)
	if c.isSelf(payload.UserID) {
		c.emit(EventSelfActive, nil)
	}
}

func (c *Client) handleInactive(data json.RawMessage) {
	var payload protocol.UserPayload
	if !decode(protocol.EventInactive, data, &payload) {
		return
	}

	if c.isSelf(payload.UserID) {
		c.state.mu.Lock()
		c.state.resetGuards()
		c.state.mu.Unlock()
		c.emit(EventSelfInactive, nil)
	}
	c.emit(EventInactive, payload)
}

func (c *Client) handleAllowDrawCard() {
	c.state.mu.Lock()
	c.state.mayDraw = true
	c.state.mu.Unlock()
	c.emit(EventSelfAllowDrawCard, nil)
}

func (c *Client) handleAllowPlayCard() {
	c.state.mu.Lock()
	c.state.mayPlay = true
	c.state.mu.Unlock()
	c.emit(EventSelfAllowPlayCard, nil)
}

func (c *Client) handleAllowAnnounce() {
	c.state.mu.Lock()
	c.state.mayAnnounce = true
	c.state.mu.Unlock()
	c.emit(EventSelfAllowAnnounce, nil)
}

func (c *Client) handleFinishedDistribution() {
	c.state.mu.Lock()
	c.state.ready = true
	c.state.mu.Unlock()

	c.emit(EventFinishedDistribution, nil)
	if c.IsActive() {
		c.emit(EventCanPlay, nil)
	}
}

// --- Own hand ---

func (c *Client) handleCardAvailable(data json.RawMessage) {
	var added card.Card
	if !decode(protocol.EventCardAvailable, data, &added) {
		return
	}

	c.state.mu.Lock()
	c.state.hand = append(c.state.hand, added)
	c.state.mu.Unlock()

	c.emit(EventSelfCardAvailable, added)
}

func (c *Client) handleCardUnavailable(data json.RawMessage) {
	var gone card.Card
	if !decode(protocol.EventCardUnavailable, data, &gone) {
		return
	}

	// A card leaving the hand can never stay playable, even without an
	// explicit card_not_playable.
	c.state.mu.Lock()
	c.state.hand = card.Remove(c.state.hand, gone)
	c.state.playable = card.Remove(c.state.playable, gone)
	c.state.mu.Unlock()

	c.emit(EventSelfCardUnavailable, gone)
}

func (c *Client) handleCardPlayable(data json.RawMessage) {
	var playable card.Card
	if !decode(protocol.EventCardPlayable, data, &playable) {
		return
	}

	c.state.mu.Lock()
	c.state.playable = append(c.state.playable, playable)
	c.state.mu.Unlock()

	c.emit(EventSelfCardPlayable, playable)
}

func (c *Client) handleCardNotPlayable(data json.RawMessage) {
	var blocked card.Card
	if !decode(protocol.EventCardNotPlayable, data, &blocked) {
		return
	}

	c.state.mu.Lock()
	c.state.playable = card.Remove(c.state.playable, blocked)
	c.state.mu.Unlock()

	c.emit(EventSelfCardNotPlayable, blocked)
}

// --- Table ---

func (c *Client) handleReceiveCard(data json.RawMessage) {
	var payload protocol.UserPayload
	if !decode(protocol.EventReceiveCard, data, &payload) {
		return
	}

	c.state.mu.Lock()
	c.state.noteUser(payload.UserID)
	c.state.cardCounts[payload.UserID]++
	c.state.mu.Unlock()

	if !c.isSelf(payload.UserID) {
		c.emit(EventEnemyReceiveCard, payload)
	}
}

func (c *Client) handlePlayCard(data json.RawMessage) {
	var payload protocol.PlayCardPayload
	if !decode(protocol.EventPlayCard, data, &payload) {
		return
	}

	c.state.mu.Lock()
	c.state.noteUser(payload.UserID)
	c.state.stack = append(c.state.stack, payload.Card)
	c.state.cardCounts[payload.UserID]--
	if c.isSelf(payload.UserID) {
		// A played card leaves the hand immediately; the later
		// card_unavailable for it becomes a no-op.
		c.state.hand = card.Remove(c.state.hand, payload.Card)
		c.state.playable = card.Remove(c.state.playable, payload.Card)
	}
	// Attach the in-flight announcement to the play it accompanies.
	payload.Announcement = c.state.pending[payload.UserID]
	delete(c.state.pending, payload.UserID)
	c.state.mu.Unlock()

	if c.isSelf(payload.UserID) {
		c.emit(EventSelfPlayCard, payload)
	} else {
		c.emit(EventEnemyPlayCard, payload)
	}
	c.emit(EventPlayCard, payload)
}

func (c *Client) handleTrick(data json.RawMessage) {
	var payload protocol.TrickPayload
	if !decode(protocol.EventTrick, data, &payload) {
		return
	}

	c.state.mu.Lock()
	c.state.noteUser(payload.UserID)
	c.state.stack = nil
	c.state.tricks[payload.UserID] = append(c.state.tricks[payload.UserID], payload.Cards)
	c.state.mu.Unlock()

	c.emit(EventTrick, payload)
	if c.isSelf(payload.UserID) {
		c.emit(EventSelfTrick, payload.Cards)
	}
}

func (c *Client) handleDeckCardCount(data json.RawMessage) {
	var count int
	if !decode(protocol.EventDeckCardCount, data, &count) {
		return
	}

	c.state.mu.Lock()
	c.state.deckCount = count
	c.state.mu.Unlock()

	c.emit(EventDeckCardCountChange, count)
}

func (c *Client) handleCloseTalon(data json.RawMessage) {
	var payload protocol.UserPayload
	if !decode(protocol.EventCloseTalon, data, &payload) {
		return
	}

	c.state.mu.Lock()
	c.state.noteUser(payload.UserID)
	c.state.mu.Unlock()

	c.emit(EventCloseTalon, payload)
}

// --- Trump ---

func (c *Client) handleTrumpChange(data json.RawMessage) {
	var next *card.Card
	if !decode(protocol.EventTrumpChange, data, &next) {
		return
	}

	c.state.mu.Lock()
	// The initial trump and a cleared trump come from the server itself;
	// any other change is the doing of whoever holds the turn.
	actor := c.state.turn
	if c.state.trump == nil || next == nil {
		actor = ServerActor
	}
	c.state.trump = next
	selfTurn := c.state.turn == c.userID
	c.state.mu.Unlock()

	c.emit(EventTrumpChange, TrumpChange{UserID: actor, Card: next})
	if selfTurn {
		c.emit(EventSelfTrumpChange, next)
	}
}

func (c *Client) handleTrumpChangePossible(data json.RawMessage) {
	var swap card.Card
	if !decode(protocol.EventTrumpChangePossible, data, &swap) {
		return
	}

	c.state.mu.Lock()
	c.state.trumpSwap = &swap
	c.state.mu.Unlock()

	c.emit(EventSelfTrumpChangePossible, swap)
}

func (c *Client) handleTrumpChangeImpossible(data json.RawMessage) {
	var swap card.Card
	if !decode(protocol.EventTrumpChangeImpossible, data, &swap) {
		return
	}

	c.state.mu.Lock()
	c.state.trumpSwap = nil
	c.state.mu.Unlock()

	c.emit(EventSelfTrumpChangeImpossible, swap)
}

// --- Announcements ---

func (c *Client) handleCanAnnounce(data json.RawMessage) {
	var offer protocol.AnnounceOffer
	if !decode(protocol.EventCanAnnounce, data, &offer) {
		return
	}

	c.state.mu.Lock()
	c.state.announceable = append(c.state.announceable, offer)
	c.state.mu.Unlock()

	c.emit(EventSelfCanAnnounce, offer)
}

func (c *Client) handleCannotAnnounce(data json.RawMessage) {
	var offer protocol.AnnounceOffer
	if !decode(protocol.EventCannotAnnounce, data, &offer) {
		return
	}

	// Offers match on announce kind plus the suit of the first card.
	c.state.mu.Lock()
	kept := c.state.announceable[:0]
	for _, candidate := range c.state.announceable {
		if candidate.Kind == offer.Kind && candidate.Cards[0].Suit == offer.Cards[0].Suit {
			continue
		}
		kept = append(kept, candidate)
	}
	c.state.announceable = kept
	c.state.mu.Unlock()

	c.emit(EventSelfCannotAnnounce, offer)
}

func (c *Client) handleAnnounce(data json.RawMessage) {
	var payload protocol.AnnouncePayload
	if !decode(protocol.EventAnnounce, data, &payload) {
		return
	}

	c.state.mu.Lock()
	c.state.noteUser(payload.UserID)
	announcement := payload.Announcement
	c.state.pending[payload.UserID] = &announcement
	c.state.announcements[payload.UserID] = append(
		[]protocol.Announcement{announcement}, c.state.announcements[payload.UserID]...)
	c.state.mu.Unlock()

	if c.isSelf(payload.UserID) {
		c.emit(EventSelfAnnouncement, payload.Announcement)
	}
	c.emit(EventAnnouncement, payload)
}

// --- Results ---

func (c *Client) handleScore(data json.RawMessage) {
	var payload protocol.ScorePayload
	if !decode(protocol.EventScore, data, &payload) {
		return
	}

	c.state.mu.Lock()
	c.state.noteUser(payload.UserID)
	c.state.scores[payload.UserID] = payload.Points
	c.state.mu.Unlock()

	if c.isSelf(payload.UserID) {
		c.emit(EventSelfScore, payload.Points)
	}
	c.emit(EventScore, payload)
}

func (c *Client) handleRoundResult(data json.RawMessage) {
	var payload protocol.RoundResultPayload
	if !decode(protocol.EventResult, data, &payload) {
		return
	}

	c.emit(EventRoundResult, payload)
	if c.isSelf(payload.Winner) {
		c.emit(EventSelfWonRound, payload.Points)
	} else {
		c.emit(EventSelfLostRound, payload.Points)
	}
}

func (c *Client) handleFinalResult(data json.RawMessage) {
	var payload protocol.FinalResultPayload
	if !decode(protocol.EventFinalResult, data, &payload) {
		return
	}

	rank := payload.Ranked[c.userID]

	c.emit(EventFinalResult, payload)
	c.emit(EventSelfResultMatch, rank)
	if c.isSelf(payload.Winner) {
		c.emit(EventSelfWonMatch, rank)
	} else {
		c.emit(EventSelfLostMatch, rank)
	}
}

func (c *Client) handleTimeout(data json.RawMessage) {
	var payload protocol.TimeoutPayload
	if !decode(protocol.EventTimeout, data, &payload) {
		return
	}

	c.emit(EventTimeout, payload)
}
