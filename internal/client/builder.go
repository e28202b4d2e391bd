package client

import (
	"github.com/gamenight/schnapsen-client/internal/network/matchmaker"
)

// Builder constructs a Schnapsen client from a found match. The
// matchmaking layer owns discovery and the connection handshake; once it
// has a live connection it hands both to the builder and steps out.
type Builder struct{}

// FromMatch builds the client for the local player userID on the given
// match and live connection.
func (Builder) FromMatch(userID string, match matchmaker.Match, conn Conn) *Client {
	return New(userID, match.Players, conn)
}
