package client

import (
	"github.com/gamenight/schnapsen-client/internal/game/card"
	"github.com/gamenight/schnapsen-client/internal/protocol"
)

// Opponent resolution. The roster of player ids is supplied at
// construction (from the match descriptor); every "enemy" accessor
// aggregates over the opponents derived from it instead of assuming a
// single opponent. When the matchmaking layer could not provide a roster,
// the opponents are the ids observed in events so far, in first-seen
// order.

// isSelf classifies an event subject relative to the local player.
func (c *Client) isSelf(userID string) bool {
	return userID == c.userID
}

// Opponents returns the known opponents of the local player, in roster
// order (or first-observed order under the fallback).
func (c *Client) Opponents() []string {
	ids := c.roster
	if len(ids) == 0 {
		c.state.mu.RLock()
		ids = append([]string(nil), c.state.seen...)
		c.state.mu.RUnlock()
	}

	opponents := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != c.userID {
			opponents = append(opponents, id)
		}
	}
	return opponents
}

// EnemyScore returns the cumulative points of all opponents.
func (c *Client) EnemyScore() int {
	total := 0
	for _, id := range c.Opponents() {
		total += c.ScoreOf(id)
	}
	return total
}

// EnemyCardCount returns the number of cards all opponents are known to
// hold.
func (c *Client) EnemyCardCount() int {
	total := 0
	for _, id := range c.Opponents() {
		total += c.CardCountOf(id)
	}
	return total
}

// EnemyTrickCount returns the number of tricks taken by all opponents.
func (c *Client) EnemyTrickCount() int {
	total := 0
	for _, id := range c.Opponents() {
		total += len(c.TricksOf(id))
	}
	return total
}

// EnemyTricks returns the completed tricks of the first opponent. Oriented
// at duo mode; with several opponents use TricksOf per Opponents entry.
func (c *Client) EnemyTricks() [][2]card.Card {
	for _, id := range c.Opponents() {
		return c.TricksOf(id)
	}
	return nil
}

// EnemyFirstTrick returns the first trick taken by the first opponent that
// has one. Oriented at duo mode.
func (c *Client) EnemyFirstTrick() ([2]card.Card, bool) {
	for _, id := range c.Opponents() {
		tricks := c.TricksOf(id)
		if len(tricks) > 0 {
			return tricks[0], true
		}
	}
	return [2]card.Card{}, false
}

// EnemyAnnouncements returns the announcements declared by the first
// opponent, newest first. Oriented at duo mode.
func (c *Client) EnemyAnnouncements() []protocol.Announcement {
	for _, id := range c.Opponents() {
		return c.AnnouncementsOf(id)
	}
	return nil
}
