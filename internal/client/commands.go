package client

import (
	"github.com/gamenight/schnapsen-client/internal/apperrors"
	"github.com/gamenight/schnapsen-client/internal/game/card"
	"github.com/gamenight/schnapsen-client/internal/protocol"
)

// Outbound commands. All are fire-and-forget forwards to the transport;
// the server remains the authority on legality, the local gates only stop
// obviously doomed sends. Gating policy: turn-bound commands require the
// active turn, and where the server hands out a matching fine-grained
// permission (play/draw/announce) that guard is required too. Send
// failures are returned to the caller, never swallowed.

// PlayCard plays a card from the hand.
func (c *Client) PlayCard(play card.Card) error {
	if !c.IsActive() {
		return apperrors.ErrNotActive
	}
	if !c.AllowPlayCard() {
		return apperrors.ErrNotAllowed
	}
	return c.conn.Emit(protocol.CmdPlayCard, play)
}

// SwapTrump exchanges swap (the trump jack) for the open trump card.
func (c *Client) SwapTrump(swap card.Card) error {
	if !c.IsActive() {
		return apperrors.ErrNotActive
	}
	return c.conn.Emit(protocol.CmdSwapTrump, swap)
}

// CloseTalon ends the draw phase early.
func (c *Client) CloseTalon() error {
	if !c.IsActive() {
		return apperrors.ErrNotActive
	}
	return c.conn.Emit(protocol.CmdCloseTalon, nil)
}

// Announce20 declares a king-queen pair off-trump.
func (c *Client) Announce20(cards []card.Card) error {
	if !c.IsActive() {
		return apperrors.ErrNotActive
	}
	if !c.AllowAnnounce() {
		return apperrors.ErrNotAllowed
	}
	return c.conn.Emit(protocol.CmdAnnounce20, protocol.Announce20Payload{Cards: cards})
}

// Announce40 declares the trump king-queen pair.
func (c *Client) Announce40() error {
	if !c.IsActive() {
		return apperrors.ErrNotActive
	}
	if !c.AllowAnnounce() {
		return apperrors.ErrNotAllowed
	}
	return c.conn.Emit(protocol.CmdAnnounce40, nil)
}

// DrawCard draws from the talon.
func (c *Client) DrawCard() error {
	if !c.IsActive() {
		return apperrors.ErrNotActive
	}
	if !c.AllowDrawCard() {
		return apperrors.ErrNotAllowed
	}
	return c.conn.Emit(protocol.CmdDrawCard, nil)
}

// CutDeck cuts the deck at index during dealing. Not turn-bound.
func (c *Client) CutDeck(index int) error {
	return c.conn.Emit(protocol.CmdCutDeck, protocol.IndexPayload{Index: index})
}

// TakeCards takes the dealt cards at index during dealing. Not turn-bound.
// ack is invoked with the server's acknowledgement (nil on success); pass
// nil when the caller does not care.
func (c *Client) TakeCards(index int, ack func(error)) error {
	if ack == nil {
		ack = func(error) {}
	}
	return c.conn.EmitWithAck(protocol.CmdTakeCards, protocol.IndexPayload{Index: index}, ack)
}
