package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamenight/schnapsen-client/internal/game/card"
	"github.com/gamenight/schnapsen-client/internal/protocol"
)

func TestOpponentsFromRoster(t *testing.T) {
	c, _ := newTestClient("A", "B")
	assert.Equal(t, []string{"B"}, c.Opponents())

	four, _ := newTestClient("A", "B", "C", "D")
	assert.Equal(t, []string{"B", "C", "D"}, four.Opponents())
}

func TestOpponentsFallbackToObserved(t *testing.T) {
	c, conn := newTestClient() // no roster from the matchmaking layer

	assert.Empty(t, c.Opponents())

	conn.Push(protocol.EventScore, protocol.ScorePayload{UserID: "B", Points: 10})
	conn.Push(protocol.EventScore, protocol.ScorePayload{UserID: "A", Points: 5})
	conn.Push(protocol.EventReceiveCard, protocol.UserPayload{UserID: "C"})

	assert.Equal(t, []string{"B", "C"}, c.Opponents(),
		"observed ids in first-seen order, self excluded")
}

func TestEnemyAggregates(t *testing.T) {
	c, conn := newTestClient("A", "B", "C")

	conn.Push(protocol.EventScore, protocol.ScorePayload{UserID: "A", Points: 20})
	conn.Push(protocol.EventScore, protocol.ScorePayload{UserID: "B", Points: 30})
	conn.Push(protocol.EventScore, protocol.ScorePayload{UserID: "C", Points: 12})

	assert.Equal(t, 20, c.Score())
	assert.Equal(t, 42, c.EnemyScore(), "enemy score aggregates every opponent")

	conn.Push(protocol.EventReceiveCard, protocol.UserPayload{UserID: "B"})
	conn.Push(protocol.EventReceiveCard, protocol.UserPayload{UserID: "C"})
	conn.Push(protocol.EventReceiveCard, protocol.UserPayload{UserID: "C"})
	assert.Equal(t, 3, c.EnemyCardCount())

	firstTrick := [2]card.Card{heartsTen, spadesAce}
	conn.Push(protocol.EventTrick, protocol.TrickPayload{UserID: "C", Cards: firstTrick})
	conn.Push(protocol.EventTrick, protocol.TrickPayload{UserID: "B", Cards: [2]card.Card{heartsKing, clubsJack}})

	assert.Equal(t, 2, c.EnemyTrickCount())

	// First-based reads follow roster order: B has a trick, so B wins the
	// scan even though C tricked first.
	trick, ok := c.EnemyFirstTrick()
	require.True(t, ok)
	assert.Equal(t, [2]card.Card{heartsKing, clubsJack}, trick)
}

func TestEnemyFirstTrickEmpty(t *testing.T) {
	c, _ := newTestClient("A", "B")
	_, ok := c.EnemyFirstTrick()
	assert.False(t, ok)
}

func TestEnemyAnnouncements(t *testing.T) {
	c, conn := newTestClient("A", "B")

	first := protocol.Announcement{
		Cards: [2]card.Card{heartsKing, heartsQueen},
		Kind:  protocol.AnnounceTwenty,
	}
	second := protocol.Announcement{
		Cards: [2]card.Card{{Suit: card.Spades, Value: card.King}, {Suit: card.Spades, Value: card.Queen}},
		Kind:  protocol.AnnounceForty,
	}
	conn.Push(protocol.EventAnnounce, protocol.AnnouncePayload{UserID: "B", Announcement: first})
	conn.Push(protocol.EventAnnounce, protocol.AnnouncePayload{UserID: "B", Announcement: second})

	got := c.EnemyAnnouncements()
	require.Len(t, got, 2)
	assert.Equal(t, second, got[0], "announcement log is newest first")
	assert.Equal(t, first, got[1])
	assert.Empty(t, c.Announcements())
}

func TestAccessorsReturnCopies(t *testing.T) {
	c, conn := newTestClient("A", "B")

	conn.Push(protocol.EventCardAvailable, heartsTen)
	hand := c.Hand()
	hand[0] = spadesAce

	assert.Equal(t, []card.Card{heartsTen}, c.Hand(),
		"mutating an accessor result must not touch the store")

	conn.Push(protocol.EventTrumpChange, heartsTen)
	trump := c.Trump()
	trump.Suit = card.Clubs
	assert.Equal(t, card.Hearts, c.Trump().Suit)
}
