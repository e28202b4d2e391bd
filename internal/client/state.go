package client

import (
	"sync"

	"github.com/gamenight/schnapsen-client/internal/game/card"
	"github.com/gamenight/schnapsen-client/internal/protocol"
)

// initialDeckCount is the talon size after dealing a duo round:
// 20 cards minus two hands of five, minus the open trump card.
const initialDeckCount = 9

// state is the projection store: the local snapshot of everything the
// server has told us about one match. It is mutated only by the event
// translator, one event at a time; readers take the lock and get copies.
type state struct {
	mu sync.RWMutex

	hand     []card.Card
	playable []card.Card
	stack    []card.Card

	tricks        map[string][][2]card.Card
	cardCounts    map[string]int
	scores        map[string]int
	announcements map[string][]protocol.Announcement
	pending       map[string]*protocol.Announcement
	seen          []string // player ids in first-observed order

	announceable []protocol.AnnounceOffer

	trump     *card.Card
	trumpSwap *card.Card // card the server allows swapping for the trump

	deckCount int
	turn      string
	ready     bool

	// permission guards, all false while inactive
	mayDraw     bool
	mayPlay     bool
	mayAnnounce bool
}

func newState() *state {
	return &state{
		tricks:        make(map[string][][2]card.Card),
		cardCounts:    make(map[string]int),
		scores:        make(map[string]int),
		announcements: make(map[string][]protocol.Announcement),
		pending:       make(map[string]*protocol.Announcement),
		deckCount:     initialDeckCount,
	}
}

// noteUser records a player id the first time it appears in any event.
// Callers hold the write lock.
func (s *state) noteUser(userID string) {
	for _, id := range s.seen {
		if id == userID {
			return
		}
	}
	s.seen = append(s.seen, userID)
}

func (s *state) resetGuards() {
	s.mayDraw = false
	s.mayPlay = false
	s.mayAnnounce = false
}

// --- Read accessors. All return copies; none mutate. ---

// Hand returns the cards currently held, in order of availability.
func (c *Client) Hand() []card.Card {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return append([]card.Card(nil), c.state.hand...)
}

// PlayableCards returns the subset of the hand currently legal to play.
func (c *Client) PlayableCards() []card.Card {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return append([]card.Card(nil), c.state.playable...)
}

// Stack returns the cards played to the current, unresolved trick.
func (c *Client) Stack() []card.Card {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return append([]card.Card(nil), c.state.stack...)
}

// Trump returns the current trump card, or nil when there is none.
func (c *Client) Trump() *card.Card {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	if c.state.trump == nil {
		return nil
	}
	t := *c.state.trump
	return &t
}

// CardForTrumpChange returns the card the server currently allows swapping
// for the trump, or nil.
func (c *Client) CardForTrumpChange() *card.Card {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	if c.state.trumpSwap == nil {
		return nil
	}
	t := *c.state.trumpSwap
	return &t
}

// DeckCardCount returns the number of undealt cards in the talon.
func (c *Client) DeckCardCount() int {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return c.state.deckCount
}

// IsReady reports whether the initial card distribution has finished.
func (c *Client) IsReady() bool {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return c.state.ready
}

// ActivePlayer returns the id of the player whose turn it is.
func (c *Client) ActivePlayer() string {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return c.state.turn
}

// IsActive reports whether it is the local player's turn.
func (c *Client) IsActive() bool {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return c.state.turn == c.userID
}

// AllowDrawCard reports whether the server has granted a draw this turn.
func (c *Client) AllowDrawCard() bool {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return c.state.mayDraw
}

// AllowPlayCard reports whether the server has granted a play this turn.
func (c *Client) AllowPlayCard() bool {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return c.state.mayPlay
}

// AllowAnnounce reports whether the server has granted announcing this turn.
func (c *Client) AllowAnnounce() bool {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return c.state.mayAnnounce
}

// Tricks returns the local player's completed tricks, in completion order.
func (c *Client) Tricks() [][2]card.Card {
	return c.TricksOf(c.userID)
}

// TricksOf returns userID's completed tricks.
func (c *Client) TricksOf(userID string) [][2]card.Card {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return append([][2]card.Card(nil), c.state.tricks[userID]...)
}

// FirstTrick returns the local player's first trick of the round.
func (c *Client) FirstTrick() ([2]card.Card, bool) {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	tricks := c.state.tricks[c.userID]
	if len(tricks) == 0 {
		return [2]card.Card{}, false
	}
	return tricks[0], true
}

// TrickCount returns the number of tricks the local player has taken.
func (c *Client) TrickCount() int {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return len(c.state.tricks[c.userID])
}

// TotalTrickCount returns the number of tricks completed by anyone.
func (c *Client) TotalTrickCount() int {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	total := 0
	for _, tricks := range c.state.tricks {
		total += len(tricks)
	}
	return total
}

// Score returns the local player's cumulative points.
func (c *Client) Score() int {
	return c.ScoreOf(c.userID)
}

// ScoreOf returns userID's cumulative points.
func (c *Client) ScoreOf(userID string) int {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return c.state.scores[userID]
}

// Announcements returns the local player's declared announcements, newest
// first.
func (c *Client) Announcements() []protocol.Announcement {
	return c.AnnouncementsOf(c.userID)
}

// AnnouncementsOf returns userID's declared announcements, newest first.
func (c *Client) AnnouncementsOf(userID string) []protocol.Announcement {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return append([]protocol.Announcement(nil), c.state.announcements[userID]...)
}

// Announceable returns the combinations the local player may currently
// declare.
func (c *Client) Announceable() []protocol.AnnounceOffer {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return append([]protocol.AnnounceOffer(nil), c.state.announceable...)
}

// CardCountOf returns the number of cards userID is known to hold.
func (c *Client) CardCountOf(userID string) int {
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	return c.state.cardCounts[userID]
}
