package matchmaker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gamenight/schnapsen-client/internal/apperrors"
	"github.com/gamenight/schnapsen-client/internal/logger"
	netclient "github.com/gamenight/schnapsen-client/internal/network/client"
)

// SearchInfo describes the match being searched for.
type SearchInfo struct {
	Region string `json:"region"`
	Game   string `json:"game"`
	Mode   string `json:"mode"`
	AI     string `json:"ai,omitempty"`
}

// Match is the descriptor the matchmaking service hands out once a game
// server has been assigned.
type Match struct {
	ID        string   `json:"match_id"`
	ServerURL string   `json:"server_url"`
	Players   []string `json:"players"`
	Mode      string   `json:"mode"`
}

// searchRequest is the frame sent to start a search.
type searchRequest struct {
	SearchID     string     `json:"search_id"`
	UserID       string     `json:"user_id"`
	SessionToken string     `json:"session_token"`
	Info         SearchInfo `json:"info"`
}

// wire frame names used by the matchmaking service
const (
	frameSearch  = "search"
	frameMatch   = "match"
	frameNoMatch = "no_match"
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Matchmaker finds a match and dials the assigned game server. It is a
// thin collaborator of the projector: the projector itself never sees the
// matchmaking connection.
type Matchmaker struct {
	url          string
	userID       string
	sessionToken string
}

// New creates a matchmaker client for one user session.
func New(url, userID, sessionToken string) *Matchmaker {
	return &Matchmaker{url: url, userID: userID, sessionToken: sessionToken}
}

// UserID returns the local player id the matchmaker searches as.
func (m *Matchmaker) UserID() string {
	return m.userID
}

// Search blocks until the matchmaking service assigns a match, then dials
// the game server and returns the match descriptor plus the dialed
// connection. The connection is not started: the caller registers its
// handlers first and then calls Start, so the deal burst the server sends
// right after the handshake cannot arrive before anyone listens. The
// matchmaking connection is closed before returning.
func (m *Matchmaker) Search(ctx context.Context, info SearchInfo) (Match, *netclient.Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, m.url, nil)
	if err != nil {
		return Match{}, nil, err
	}
	defer conn.Close()

	req := frame{Event: frameSearch}
	req.Data, err = json.Marshal(searchRequest{
		SearchID:     uuid.NewString(),
		UserID:       m.userID,
		SessionToken: m.sessionToken,
		Info:         info,
	})
	if err != nil {
		return Match{}, nil, err
	}
	if err := conn.WriteJSON(req); err != nil {
		return Match{}, nil, err
	}

	match, err := m.awaitMatch(ctx, conn)
	if err != nil {
		return Match{}, nil, err
	}

	game := netclient.NewClient(match.ServerURL)
	if err := game.Connect(); err != nil {
		return Match{}, nil, err
	}

	logger.LogInfo("match %s found on %s", match.ID, match.ServerURL)
	return match, game, nil
}

func (m *Matchmaker) awaitMatch(ctx context.Context, conn *websocket.Conn) (Match, error) {
	// Unblock the read loop when the caller gives up.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			if ctx.Err() != nil {
				return Match{}, ctx.Err()
			}
			return Match{}, err
		}

		switch f.Event {
		case frameMatch:
			var match Match
			if err := json.Unmarshal(f.Data, &match); err != nil {
				return Match{}, err
			}
			return match, nil
		case frameNoMatch:
			return Match{}, apperrors.ErrNoMatch
		default:
			// Queue position updates and the like are informational.
			logger.LogEvent("recv", f.Event, f.Data)
		}
	}
}
